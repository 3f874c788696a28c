package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout/internal/pkg/errs"
)

func newFakePayPal(t *testing.T, orders map[string]map[string]any) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var tokenRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-1" || pass != "secret-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		tokenRequests.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-1",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /v2/checkout/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, found := orders[r.PathValue("id")]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &tokenRequests
}

func TestGetOrder_Completed(t *testing.T) {
	server, tokenRequests := newFakePayPal(t, map[string]map[string]any{
		"5O190127TN364715T": {
			"id":     "5O190127TN364715T",
			"status": "COMPLETED",
			"purchase_units": []map[string]any{
				{"amount": map[string]any{"currency_code": "USD", "value": "53.60"}},
			},
		},
	})

	gateway, err := NewGateway(server.URL, "client-1", "secret-1")
	require.NoError(t, err)

	providerOrder, err := gateway.GetOrder(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)

	assert.Equal(t, "5O190127TN364715T", providerOrder.ID)
	assert.True(t, providerOrder.IsCompleted())
	assert.InDelta(t, 53.60, providerOrder.Amount, 0.001)
	assert.Equal(t, "USD", providerOrder.Currency)
	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestGetOrder_TokenIsCachedAcrossCalls(t *testing.T) {
	server, tokenRequests := newFakePayPal(t, map[string]map[string]any{
		"ORDER-1": {"id": "ORDER-1", "status": "APPROVED"},
	})

	gateway, err := NewGateway(server.URL, "client-1", "secret-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		providerOrder, getErr := gateway.GetOrder(context.Background(), "ORDER-1")
		require.NoError(t, getErr)
		assert.False(t, providerOrder.IsCompleted())
	}
	assert.Equal(t, int32(1), tokenRequests.Load(), "Token should be fetched once and cached")
}

func TestGetOrder_NotFound(t *testing.T) {
	server, _ := newFakePayPal(t, nil)

	gateway, err := NewGateway(server.URL, "client-1", "secret-1")
	require.NoError(t, err)

	_, err = gateway.GetOrder(context.Background(), "MISSING")
	require.Error(t, err)

	var notFound *errs.ObjectNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestNewGateway_Validation(t *testing.T) {
	_, err := NewGateway("", "client-1", "secret-1")
	assert.Error(t, err)

	_, err = NewGateway("https://api-m.sandbox.paypal.com", "", "secret-1")
	assert.Error(t, err)

	_, err = NewGateway("https://api-m.sandbox.paypal.com", "client-1", "")
	assert.Error(t, err)
}
