package wompi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAcceptanceTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/merchants/pub_test", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{
			"presigned_acceptance":{"acceptance_token":"tok-a","permalink":"https://wompi.co/a"},
			"presigned_personal_data_auth":{"acceptance_token":"tok-b","permalink":"https://wompi.co/b"}
		}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub_test")
	tokens, err := c.FetchAcceptanceTokens(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-a", tokens.AcceptanceToken)
	assert.Equal(t, "tok-b", tokens.PersonalDataAuthToken)
	assert.Equal(t, "https://wompi.co/a", tokens.PermalinkA)
	assert.Equal(t, "https://wompi.co/b", tokens.PermalinkB)
}

func TestTokenizeCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tokens/cards", r.URL.Path)
		assert.Equal(t, "Bearer pub_test", r.Header.Get("Authorization"))

		var card CardRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&card))
		assert.Equal(t, "4242424242424242", card.Number)
		assert.Equal(t, "12", card.ExpMonth)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"tok_stagtest_123"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub_test")
	token, err := c.TokenizeCard(context.Background(), CardRequest{
		Number:     "4242424242424242",
		CVC:        "123",
		ExpMonth:   "12",
		ExpYear:    "29",
		CardHolder: "JANE DOE",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_stagtest_123", token)
}

func TestCreateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer pub_test", r.Header.Get("Authorization"))

		var req TransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(250000), req.AmountInCents)
		assert.Equal(t, "COP", req.Currency)
		assert.Equal(t, "CARD", req.PaymentMethod.Type)
		assert.Equal(t, 2, req.PaymentMethod.Installments)
		assert.NotEmpty(t, req.Signature)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": Transaction{
			ID:        "txn-1",
			Reference: req.Reference,
			Status:    "PENDING",
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub_test")
	tx, err := c.CreateTransaction(context.Background(), TransactionRequest{
		AmountInCents: 250000,
		Currency:      "COP",
		Signature:     "deadbeef",
		Reference:     "WOMPI-x",
		PaymentMethod: PaymentMethod{Type: "CARD", Installments: 2, Token: "tok"},
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-1", tx.ID)
	assert.Equal(t, "WOMPI-x", tx.Reference)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/txn-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{
			"id":"txn-9","status":"APPROVED","finalized_at":"2024-05-01T10:00:00.000Z",
			"payment_method":{"type":"CARD","extra":{"brand":"VISA","last_four":"4242"}}
		}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub_test")
	tx, err := c.VerifyTransaction(context.Background(), "txn-9")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", tx.Status)
	assert.Equal(t, "VISA", tx.PaymentMethod.Extra.Brand)
}

func TestRemoteErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INPUT_VALIDATION_ERROR"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pub_test")
	_, err := c.CreateTransaction(context.Background(), TransactionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
