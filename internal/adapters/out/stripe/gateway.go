// Package stripe implements the Stripe gateway over the Payment Intents
// REST API. The checkout backend reads an intent by id to verify it settled
// for the expected amount; the charge is expanded to surface card metadata
// for the order record.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

var _ ports.StripeGateway = (*Gateway)(nil)

// Gateway calls the Stripe REST API with secret-key bearer authentication.
type Gateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewGateway creates a Stripe gateway. baseURL is normally
// https://api.stripe.com and overridable for tests.
func NewGateway(baseURL, secretKey string) (*Gateway, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if secretKey == "" {
		return nil, errs.NewValueIsRequiredError("secretKey")
	}

	return &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// GetPaymentIntent retrieves a payment intent with its latest charge
// expanded and reduces it to the fields the verifier inspects.
func (g *Gateway) GetPaymentIntent(ctx context.Context, intentID string) (ports.StripePaymentIntent, error) {
	if intentID == "" {
		return ports.StripePaymentIntent{}, errs.NewValueIsRequiredError("intentID")
	}

	endpoint := g.baseURL + "/v1/payment_intents/" + url.PathEscape(intentID) + "?expand[]=latest_charge"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.StripePaymentIntent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.StripePaymentIntent{}, fmt.Errorf("stripe get payment intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.StripePaymentIntent{}, errs.NewObjectNotFoundError("stripePaymentIntent", intentID)
	}
	if resp.StatusCode != http.StatusOK {
		return ports.StripePaymentIntent{}, fmt.Errorf("stripe get payment intent: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		Amount       int64  `json:"amount"`
		Currency     string `json:"currency"`
		LatestCharge struct {
			PaymentMethodDetails struct {
				Card struct {
					Brand string `json:"brand"`
					Last4 string `json:"last4"`
				} `json:"card"`
			} `json:"payment_method_details"`
		} `json:"latest_charge"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.StripePaymentIntent{}, fmt.Errorf("stripe get payment intent: decode: %w", err)
	}

	return ports.StripePaymentIntent{
		ID:          body.ID,
		Status:      body.Status,
		AmountCents: body.Amount,
		Currency:    body.Currency,
		CardBrand:   body.LatestCharge.PaymentMethodDetails.Card.Brand,
		CardLast4:   body.LatestCharge.PaymentMethodDetails.Card.Last4,
	}, nil
}
