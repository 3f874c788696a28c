package order

import (
	"fmt"

	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

// ErrPaymentIsNotConstructed is returned when validating a Payment that was
// not created via NewPayment.
var ErrPaymentIsNotConstructed = errs.NewValueIsRequiredError("Payment must be created via NewPayment")

// PaymentMethod identifies how the customer claims to have paid.
type PaymentMethod int

const (
	// MethodNone means no payment was attached to the checkout; the order
	// stays pending until settled out of band.
	MethodNone PaymentMethod = iota

	// MethodPayPal is the order-capture style provider.
	MethodPayPal

	// MethodStripe is the intent-style provider.
	MethodStripe
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		MethodNone:   "none",
		MethodPayPal: "paypal",
		MethodStripe: "stripe",
	}
}

// PaymentMethodFromString parses a method from its string form.
// The empty string maps to MethodNone.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	if s == "" {
		return MethodNone, nil
	}
	for m, str := range getPaymentMethodStrings() {
		if str == s {
			return m, nil
		}
	}
	return MethodNone, errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", s))
}

// String returns the lowercase name of the method.
func (m PaymentMethod) String() string {
	if s, ok := getPaymentMethodStrings()[m]; ok {
		return s
	}
	return "none"
}

// Validate checks if the PaymentMethod value is valid.
func (m PaymentMethod) Validate() error {
	if _, ok := getPaymentMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// PaymentStatus is the settlement state of the order's payment.
type PaymentStatus int

const (
	// PaymentPending means no completed transaction has been confirmed.
	PaymentPending PaymentStatus = iota

	// PaymentPaid means the provider confirmed a completed transaction of
	// the expected amount.
	PaymentPaid

	// PaymentFailed means verification was attempted and rejected.
	PaymentFailed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentPending: "pending",
		PaymentPaid:    "paid",
		PaymentFailed:  "failed",
	}
}

// PaymentStatusFromString parses a payment status from its string form.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for st, str := range getPaymentStatusStrings() {
		if str == s {
			return st, nil
		}
	}
	return PaymentPending, errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", s))
}

// String returns the lowercase name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "pending"
}

// Payment is a value object holding the verified payment attached to an
// order: the claimed method and provider transaction id, the settlement
// status after verification, and the optional card metadata extracted from
// intent-style providers.
type Payment struct {
	method    PaymentMethod
	paymentID string
	status    PaymentStatus
	cardBrand string
	cardLast4 string

	guard guard.ConstructorGuard
}

// NewPayment creates a Payment. A provider transaction id is required for
// any method other than MethodNone. Card metadata is optional.
func NewPayment(method PaymentMethod, paymentID string, status PaymentStatus, cardBrand, cardLast4 string) (Payment, error) {
	if err := method.Validate(); err != nil {
		return Payment{}, err
	}
	if method != MethodNone && paymentID == "" {
		return Payment{}, errs.NewValueIsRequiredError("paymentId")
	}

	return Payment{
		method:    method,
		paymentID: paymentID,
		status:    status,
		cardBrand: cardBrand,
		cardLast4: cardLast4,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewUnpaidPayment creates the Payment for a checkout without a payment
// attached: method none, status pending.
func NewUnpaidPayment() Payment {
	return Payment{
		method: MethodNone,
		status: PaymentPending,
		guard:  guard.NewConstructorGuard(),
	}
}

// Validate ensures the Payment was created via a constructor.
func (p Payment) Validate() error {
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

// Method returns the payment method.
func (p Payment) Method() PaymentMethod { return p.method }

// PaymentID returns the provider transaction id, empty for MethodNone.
func (p Payment) PaymentID() string { return p.paymentID }

// Status returns the settlement status.
func (p Payment) Status() PaymentStatus { return p.status }

// CardBrand returns the card brand, if the provider reported one.
func (p Payment) CardBrand() string { return p.cardBrand }

// CardLast4 returns the last four card digits, if reported.
func (p Payment) CardLast4() string { return p.cardLast4 }

// IsPaid reports whether the payment settled.
func (p Payment) IsPaid() bool { return p.status == PaymentPaid }
