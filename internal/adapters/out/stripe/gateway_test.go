package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout/internal/pkg/errs"
)

func newFakeStripe(t *testing.T, intents map[string]map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/payment_intents/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test_1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, found := intents[r.PathValue("id")]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGetPaymentIntent_Succeeded(t *testing.T) {
	server := newFakeStripe(t, map[string]map[string]any{
		"pi_1": {
			"id":       "pi_1",
			"status":   "succeeded",
			"amount":   5360,
			"currency": "usd",
			"latest_charge": map[string]any{
				"payment_method_details": map[string]any{
					"card": map[string]any{"brand": "visa", "last4": "4242"},
				},
			},
		},
	})

	gateway, err := NewGateway(server.URL, "sk_test_1")
	require.NoError(t, err)

	intent, err := gateway.GetPaymentIntent(context.Background(), "pi_1")
	require.NoError(t, err)

	assert.Equal(t, "pi_1", intent.ID)
	assert.True(t, intent.IsSucceeded())
	assert.Equal(t, int64(5360), intent.AmountCents)
	assert.Equal(t, "usd", intent.Currency)
	assert.Equal(t, "visa", intent.CardBrand)
	assert.Equal(t, "4242", intent.CardLast4)
}

func TestGetPaymentIntent_RequiresPaymentMethod(t *testing.T) {
	server := newFakeStripe(t, map[string]map[string]any{
		"pi_2": {
			"id":       "pi_2",
			"status":   "requires_payment_method",
			"amount":   5360,
			"currency": "usd",
		},
	})

	gateway, err := NewGateway(server.URL, "sk_test_1")
	require.NoError(t, err)

	intent, err := gateway.GetPaymentIntent(context.Background(), "pi_2")
	require.NoError(t, err)

	assert.False(t, intent.IsSucceeded())
	assert.Empty(t, intent.CardBrand)
}

func TestGetPaymentIntent_NotFound(t *testing.T) {
	server := newFakeStripe(t, nil)

	gateway, err := NewGateway(server.URL, "sk_test_1")
	require.NoError(t, err)

	_, err = gateway.GetPaymentIntent(context.Background(), "pi_missing")
	require.Error(t, err)

	var notFound *errs.ObjectNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestNewGateway_Validation(t *testing.T) {
	_, err := NewGateway("", "sk_test_1")
	assert.Error(t, err)

	_, err = NewGateway("https://api.stripe.com", "")
	assert.Error(t, err)
}
