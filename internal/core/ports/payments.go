package ports

import (
	"context"
)

// PayPalOrder is the subset of a provider order the checkout flow needs to
// verify a capture.
type PayPalOrder struct {
	ID       string
	Status   string
	Amount   float64
	Currency string
}

// IsCompleted reports whether the provider captured the payment.
func (o PayPalOrder) IsCompleted() bool {
	return o.Status == "COMPLETED"
}

// PayPalGateway defines the contract for verifying PayPal captures against
// the provider API.
type PayPalGateway interface {
	// GetOrder retrieves the provider order by its ID.
	GetOrder(ctx context.Context, orderID string) (PayPalOrder, error)
}

// StripePaymentIntent is the subset of a provider payment intent the
// checkout flow needs to verify a charge.
type StripePaymentIntent struct {
	ID          string
	Status      string
	AmountCents int64
	Currency    string
	CardBrand   string
	CardLast4   string
}

// IsSucceeded reports whether the provider settled the charge.
func (i StripePaymentIntent) IsSucceeded() bool {
	return i.Status == "succeeded"
}

// StripeGateway defines the contract for verifying Stripe payment intents
// against the provider API.
type StripeGateway interface {
	// GetPaymentIntent retrieves the provider payment intent by its ID.
	GetPaymentIntent(ctx context.Context, intentID string) (StripePaymentIntent, error)
}
