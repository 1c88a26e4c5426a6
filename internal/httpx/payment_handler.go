package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wompi-checkout/internal/wompi"
)

// PaymentHandler is a thin pass-through over the gateway client: tokens,
// card tokenization and transaction verification. Remote failures surface
// as generic messages; detail goes to the log.
type PaymentHandler struct {
	Gateway *wompi.Client
	Log     *zap.Logger
}

func (h *PaymentHandler) Register(r *chi.Mux) {
	r.Get("/payment/tokens", h.getTokens)
	r.Post("/payment/cards", h.tokenizeCard)
	r.Get("/payment/verify/{transactionId}", h.verifyTransaction)
}

func (h *PaymentHandler) getTokens(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tokens, err := h.Gateway.FetchAcceptanceTokens(ctx)
	if err != nil {
		h.Log.Error("fetch acceptance tokens failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Error al obtener los tokens de aceptación")
		return
	}
	writeData(w, http.StatusOK, tokens)
}

func (h *PaymentHandler) tokenizeCard(w http.ResponseWriter, r *http.Request) {
	var card wompi.CardRequest
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if card.Number == "" || card.CVC == "" || card.ExpMonth == "" || card.ExpYear == "" || card.CardHolder == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.Gateway.TokenizeCard(ctx, card)
	if err != nil {
		h.Log.Error("tokenize card failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Error al tokenizar la tarjeta")
		return
	}
	writeData(w, http.StatusOK, token)
}

func (h *PaymentHandler) verifyTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transactionId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Gateway.VerifyTransaction(ctx, id)
	if err != nil {
		h.Log.Error("verify transaction failed", zap.String("transaction_id", id), zap.Error(err))
		writeError(w, http.StatusBadRequest, "Error al verificar la transacción")
		return
	}
	writeData(w, http.StatusOK, tx)
}
