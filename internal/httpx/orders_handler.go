package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wompi-checkout/internal/checkout"
	"wompi-checkout/internal/redisx"
)

type OrdersHandler struct {
	Orchestrator *checkout.Orchestrator
	Reconciler   *checkout.Reconciler
	Store        checkout.Store
	Redis        *redis.Client
	Log          *zap.Logger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Patch("/orders/{reference}", h.updateOrder)
	r.Get("/orders/{reference}", h.getOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Address == "" || req.Email == "" || len(req.Payment.Items) == 0 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	// the gateway call runs inside the saga, so leave it room
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	tx, err := h.Orchestrator.CreateOrder(ctx, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, http.StatusCreated, tx)
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "missing reference")
		return
	}

	var upd checkout.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if upd.Status == "" || upd.GatewayTransactionID == "" || upd.FinalizedAt == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Reconciler.UpdateOrder(ctx, reference, upd)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, http.StatusOK, msg)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "missing reference")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, reference)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	payment, err := h.Store.Payments().GetByReference(ctx, reference)
	if err != nil {
		h.Log.Error("status lookup failed", zap.String("reference", reference), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status lookup failed")
		return
	}
	if payment == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	body := map[string]any{
		"reference":     reference,
		"status":        payment.PaymentStatus,
		"statusMessage": checkout.StatusMessage(payment.PaymentStatus),
	}
	b, _ := json.Marshal(body)
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
