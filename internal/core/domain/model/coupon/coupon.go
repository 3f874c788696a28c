// Package coupon models discount coupons as the checkout core sees them.
// Coupons are read-only here: they are created and managed elsewhere, and the
// checkout only evaluates eligibility and computes discounts per order.
package coupon

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrCouponIsNotConstructed is returned when a Coupon instance was not
// created through the NewCoupon factory method.
var ErrCouponIsNotConstructed = errors.New("Coupon must be created via NewCoupon constructor")

// Type distinguishes how a coupon's amount is interpreted.
type Type int

const (
	// UnknownType represents an invalid or undefined coupon type.
	UnknownType Type = iota

	// Percentage discounts the eligible subtotal by amount percent.
	Percentage

	// Fixed discounts the eligible subtotal by a flat amount, capped at the
	// eligible subtotal itself.
	Fixed
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		UnknownType: "unknown",
		Percentage:  "percentage",
		Fixed:       "fixed",
	}
}

// TypeFromString parses a coupon type from its string form.
func TypeFromString(s string) (Type, error) {
	for t, str := range getTypeStrings() {
		if t != UnknownType && str == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("couponType", fmt.Errorf("%q is not a valid coupon type", s))
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if t != Percentage && t != Fixed {
		return errs.NewValueIsInvalidErrorWithCause("couponType", fmt.Errorf("%d is not a valid coupon type", t))
	}
	return nil
}

// Coupon is a discount definition with an optional eligibility restriction.
// A coupon with neither product nor category restrictions applies to every
// line item; otherwise a line item is eligible when its product id is in the
// product restriction set or the product belongs to a restricted category.
//
// Invariants:
//   - Code is non-empty and unique across coupons
//   - Amount is positive
//   - Percentage coupons never exceed 100
type Coupon struct {
	code        string
	couponType  Type
	amount      float64
	isActive    bool
	productIDs  []kernel.UUID
	categoryIDs []kernel.UUID

	isConstructed bool
}

// NewCoupon creates a Coupon with validation. Percentage amounts above 100
// are rejected here, at creation time, so the evaluator never sees them.
func NewCoupon(
	code string,
	couponType Type,
	amount float64,
	isActive bool,
	productIDs, categoryIDs []kernel.UUID,
) (*Coupon, error) {
	c := &Coupon{
		isActive:      isActive,
		productIDs:    productIDs,
		categoryIDs:   categoryIDs,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setCode(code),
		c.setTypeAndAmount(couponType, amount),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Coupon instance was properly constructed through NewCoupon.
func (c *Coupon) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCouponIsNotConstructed
	}
	return nil
}

// Code returns the unique coupon code.
func (c *Coupon) Code() string {
	return c.code
}

// Type returns the coupon type.
func (c *Coupon) Type() Type {
	return c.couponType
}

// Amount returns the discount amount: percent for Percentage coupons,
// a monetary amount for Fixed coupons.
func (c *Coupon) Amount() float64 {
	return c.amount
}

// IsActive reports whether the coupon can currently be redeemed.
func (c *Coupon) IsActive() bool {
	return c.isActive
}

// ProductIDs returns the product restriction set, empty meaning unrestricted.
func (c *Coupon) ProductIDs() []kernel.UUID {
	return c.productIDs
}

// CategoryIDs returns the category restriction set, empty meaning unrestricted.
func (c *Coupon) CategoryIDs() []kernel.UUID {
	return c.categoryIDs
}

// AppliesToAll reports whether the coupon has no restriction sets.
func (c *Coupon) AppliesToAll() bool {
	return len(c.productIDs) == 0 && len(c.categoryIDs) == 0
}

// AppliesTo reports whether a line item for the given product is eligible:
// the coupon applies to all items, or the product id is in the restriction
// set, or the product belongs to one of the restricted categories.
func (c *Coupon) AppliesTo(productID kernel.UUID, productCategoryIDs []kernel.UUID) bool {
	if c.AppliesToAll() {
		return true
	}
	for _, id := range c.productIDs {
		if id.IsEqual(productID) {
			return true
		}
	}
	for _, restricted := range c.categoryIDs {
		for _, categoryID := range productCategoryIDs {
			if restricted.IsEqual(categoryID) {
				return true
			}
		}
	}
	return false
}

func (c *Coupon) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	c.code = code
	return nil
}

func (c *Coupon) setTypeAndAmount(couponType Type, amount float64) error {
	if err := couponType.Validate(); err != nil {
		return err
	}
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is not greater than 0", amount))
	}
	if couponType == Percentage && amount > 100 {
		return errs.NewValueIsOutOfRangeError("amount", amount, 0, 100)
	}

	c.couponType = couponType
	c.amount = amount
	return nil
}
