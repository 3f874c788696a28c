package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/ports"
)

// ErrPaymentVerificationFailed indicates the payment provider did not confirm
// the charge for the expected amount. The checkout aborts and the order is
// never persisted.
var ErrPaymentVerificationFailed = errors.New("payment verification failed")

// PaymentVerificationError carries the provider-specific failure reason.
type PaymentVerificationError struct {
	Method    order.PaymentMethod
	PaymentID string
	Reason    string
}

// NewPaymentVerificationError creates a PaymentVerificationError.
func NewPaymentVerificationError(method order.PaymentMethod, paymentID, reason string) *PaymentVerificationError {
	return &PaymentVerificationError{Method: method, PaymentID: paymentID, Reason: reason}
}

func (e *PaymentVerificationError) Error() string {
	return fmt.Sprintf("%v: method is: %s, payment ID is: %s, reason: %s",
		ErrPaymentVerificationFailed, e.Method, e.PaymentID, e.Reason)
}

func (e *PaymentVerificationError) Unwrap() error {
	return ErrPaymentVerificationFailed
}

// PaymentVerifier confirms a claimed payment against the provider before the
// order is persisted.
//
// Business rules:
//   - Method none skips verification; the payment stays pending
//   - PayPal verifies by remote order status (captured means completed)
//   - Stripe verifies by intent success plus an exact amount/currency match
//   - A failed verification never marks the order paid
type PaymentVerifier struct {
	paypal   ports.PayPalGateway
	stripe   ports.StripeGateway
	currency string
}

// NewPaymentVerifier creates a PaymentVerifier. The currency is the store
// currency every charge is expected in, e.g. "usd".
func NewPaymentVerifier(paypal ports.PayPalGateway, stripe ports.StripeGateway, currency string) PaymentVerifier {
	return PaymentVerifier{
		paypal:   paypal,
		stripe:   stripe,
		currency: strings.ToLower(currency),
	}
}

// Verify checks the claimed payment and returns the Payment value to store on
// the order. The returned payment is paid only when the provider confirmed it.
func (v *PaymentVerifier) Verify(ctx context.Context, method order.PaymentMethod, paymentID string, total kernel.Money) (order.Payment, error) {
	switch method {
	case order.MethodNone:
		return order.NewUnpaidPayment(), nil
	case order.MethodPayPal:
		return v.verifyPayPal(ctx, paymentID)
	case order.MethodStripe:
		return v.verifyStripe(ctx, paymentID, total)
	default:
		return order.Payment{}, NewPaymentVerificationError(method, paymentID, "unsupported payment method")
	}
}

func (v *PaymentVerifier) verifyPayPal(ctx context.Context, paymentID string) (order.Payment, error) {
	remote, err := v.paypal.GetOrder(ctx, paymentID)
	if err != nil {
		return order.Payment{}, NewPaymentVerificationError(order.MethodPayPal, paymentID, err.Error())
	}
	if !remote.IsCompleted() {
		reason := fmt.Sprintf("remote order status is %q, want COMPLETED", remote.Status)
		return order.Payment{}, NewPaymentVerificationError(order.MethodPayPal, paymentID, reason)
	}

	return order.NewPayment(order.MethodPayPal, paymentID, order.PaymentPaid, "", "")
}

func (v *PaymentVerifier) verifyStripe(ctx context.Context, paymentID string, total kernel.Money) (order.Payment, error) {
	intent, err := v.stripe.GetPaymentIntent(ctx, paymentID)
	if err != nil {
		return order.Payment{}, NewPaymentVerificationError(order.MethodStripe, paymentID, err.Error())
	}
	if !intent.IsSucceeded() {
		reason := fmt.Sprintf("intent status is %q, want succeeded", intent.Status)
		return order.Payment{}, NewPaymentVerificationError(order.MethodStripe, paymentID, reason)
	}
	if intent.AmountCents != total.Cents() {
		reason := fmt.Sprintf("intent amount is %d cents, order total is %d cents", intent.AmountCents, total.Cents())
		return order.Payment{}, NewPaymentVerificationError(order.MethodStripe, paymentID, reason)
	}
	if !strings.EqualFold(intent.Currency, v.currency) {
		reason := fmt.Sprintf("intent currency is %q, store currency is %q", intent.Currency, v.currency)
		return order.Payment{}, NewPaymentVerificationError(order.MethodStripe, paymentID, reason)
	}

	return order.NewPayment(order.MethodStripe, paymentID, order.PaymentPaid, intent.CardBrand, intent.CardLast4)
}
