package kernel

import (
	"fmt"
	"math"

	"checkout/internal/pkg/errs"
)

// Money is a value object for a non-negative monetary amount in a single
// implicit currency, always rounded to 2 decimal places. Every pricing field
// of an order (subtotal, discount, tax, shipping, total) is a Money value.
//
// Unlike UUID, the zero value of Money is valid and represents 0.00.
// All arithmetic operations return new values; Money is immutable.
type Money struct {
	amount float64
}

// NewMoney creates a Money value from a float amount.
// The amount must be finite and non-negative; it is rounded to 2 decimals.
func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is not a finite number", amount))
	}
	if amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is negative", amount))
	}
	return Money{amount: RoundMoney(amount)}, nil
}

// RoundMoney rounds a float to 2 decimal places, half away from zero.
func RoundMoney(f float64) float64 {
	return math.Round(f*100) / 100
}

// Amount returns the monetary amount as a float rounded to 2 decimals.
func (m Money) Amount() float64 {
	return m.amount
}

// Cents returns the amount in integer cents, as used by intent-style
// payment providers.
func (m Money) Cents() int64 {
	return int64(math.Round(m.amount * 100))
}

// IsZero reports whether the amount is 0.00.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsEqual compares two Money values for equality.
func (m Money) IsEqual(other Money) bool {
	return m.Cents() == other.Cents()
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{amount: RoundMoney(m.amount + other.amount)}
}

// Sub returns the difference of two Money values, floored at zero.
// The floor keeps derived amounts such as the taxable base and the order
// total non-negative when a discount exceeds what it applies to.
func (m Money) Sub(other Money) Money {
	diff := m.amount - other.amount
	if diff < 0 {
		diff = 0
	}
	return Money{amount: RoundMoney(diff)}
}

// MulQuantity returns the amount multiplied by a line-item quantity.
func (m Money) MulQuantity(quantity int) Money {
	return Money{amount: RoundMoney(m.amount * float64(quantity))}
}

// ApplyRate returns the given percentage of the amount, rounded to 2
// decimals. Used for percentage coupons and tax rates.
func (m Money) ApplyRate(percent float64) Money {
	return Money{amount: RoundMoney(m.amount * percent / 100)}
}

// Min returns the smaller of two Money values.
func (m Money) Min(other Money) Money {
	if other.amount < m.amount {
		return other
	}
	return m
}
