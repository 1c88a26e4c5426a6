package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wompi-checkout/internal/wompi"
)

func newPaymentRouter(t *testing.T, upstream http.HandlerFunc) http.Handler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	h := &PaymentHandler{Gateway: wompi.NewClient(srv.URL, "pub_test"), Log: zap.NewNop()}
	router := NewRouter()
	h.Register(router)
	return router
}

func TestGetTokensEndpoint(t *testing.T) {
	router := newPaymentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchants/pub_test", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"presigned_acceptance":{"acceptance_token":"acc","permalink":"pa"},
			"presigned_personal_data_auth":{"acceptance_token":"pda","permalink":"pb"}}}`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment/tokens", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data wompi.AcceptanceTokens `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "acc", out.Data.AcceptanceToken)
	assert.Equal(t, "pda", out.Data.PersonalDataAuthToken)
}

func TestGetTokensUpstreamFailureReturnsBadRequest(t *testing.T) {
	router := newPaymentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant suspended", http.StatusUnprocessableEntity)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment/tokens", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Error al obtener los tokens de aceptación", out["error"])
}

func TestTokenizeCardUpstreamFailureReturnsBadRequest(t *testing.T) {
	router := newPaymentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid card", http.StatusUnprocessableEntity)
	})

	body := `{"number":"4242424242424242","cvc":"123","exp_month":"06","exp_year":"29","card_holder":"Jane Doe"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment/cards", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Error al tokenizar la tarjeta", out["error"])
}

func TestVerifyTransactionUpstreamFailureReturnsBadRequest(t *testing.T) {
	router := newPaymentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment/verify/txn-404", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Error al verificar la transacción", out["error"])
}
