// Package paypal implements the PayPal gateway over the Checkout Orders v2
// REST API. Only verification is needed here: the storefront creates and
// captures the order in the browser, the checkout backend re-reads it to
// confirm the capture actually completed.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

var _ ports.PayPalGateway = (*Gateway)(nil)

// Gateway calls the PayPal REST API with client-credentials authentication.
// Access tokens are cached until shortly before expiry.
type Gateway struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewGateway creates a PayPal gateway. baseURL is the API host, e.g.
// https://api-m.sandbox.paypal.com for the sandbox.
func NewGateway(baseURL, clientID, secret string) (*Gateway, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if clientID == "" {
		return nil, errs.NewValueIsRequiredError("clientID")
	}
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}

	return &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// GetOrder retrieves a provider order and reduces it to the fields the
// verifier inspects: status plus the first purchase unit's amount.
func (g *Gateway) GetOrder(ctx context.Context, orderID string) (ports.PayPalOrder, error) {
	if orderID == "" {
		return ports.PayPalOrder{}, errs.NewValueIsRequiredError("orderID")
	}

	token, err := g.token(ctx)
	if err != nil {
		return ports.PayPalOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return ports.PayPalOrder{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.PayPalOrder{}, fmt.Errorf("paypal get order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.PayPalOrder{}, errs.NewObjectNotFoundError("paypalOrder", orderID)
	}
	if resp.StatusCode != http.StatusOK {
		return ports.PayPalOrder{}, fmt.Errorf("paypal get order: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Amount struct {
				CurrencyCode string `json:"currency_code"`
				Value        string `json:"value"`
			} `json:"amount"`
		} `json:"purchase_units"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.PayPalOrder{}, fmt.Errorf("paypal get order: decode: %w", err)
	}

	providerOrder := ports.PayPalOrder{
		ID:     body.ID,
		Status: body.Status,
	}
	if len(body.PurchaseUnits) > 0 {
		amount, parseErr := strconv.ParseFloat(body.PurchaseUnits[0].Amount.Value, 64)
		if parseErr != nil {
			return ports.PayPalOrder{}, fmt.Errorf("paypal get order: amount %q: %w",
				body.PurchaseUnits[0].Amount.Value, parseErr)
		}
		providerOrder.Amount = amount
		providerOrder.Currency = body.PurchaseUnits[0].Amount.CurrencyCode
	}
	return providerOrder, nil
}

// token returns a cached access token, fetching a fresh one via the
// client-credentials grant when the cache is empty or near expiry.
func (g *Gateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.clientID, g.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("paypal token: unexpected status %d: %s", resp.StatusCode, payload)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("paypal token: decode: %w", err)
	}

	g.accessToken = body.AccessToken
	// Renew a minute early to avoid using a token that expires mid-request
	g.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return g.accessToken, nil
}
