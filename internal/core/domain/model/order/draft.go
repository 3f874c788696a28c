package order

import (
	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

// ErrDraftIsNotConstructed is returned when validating a Draft that was not
// created via NewDraft.
var ErrDraftIsNotConstructed = errs.NewValueIsRequiredError("Draft must be created via NewDraft")

// AppliedCoupon is the snapshot of a redeemed coupon stored on the order.
type AppliedCoupon struct {
	Code   string
	Type   coupon.Type
	Amount float64
}

// RateQuote is the snapshot of a carrier rate quote. When the checkout
// request carries a pre-fetched quote, its price is used verbatim as the
// shipping cost and the whole quote is persisted for reference.
type RateQuote struct {
	RateID        string
	Carrier       string
	ServiceCode   string
	Price         kernel.Money
	EstimatedDays int
}

// Draft is the fully computed, not-yet-persisted pricing result of a
// checkout attempt. It is immutable: the total is derived in the constructor
// so that
//
//	total = max(0, subtotal − discount + tax + shipping)
//
// holds for every Draft by construction.
type Draft struct {
	lines          []LineItem
	subtotal       kernel.Money
	discountAmount kernel.Money
	appliedCoupon  *AppliedCoupon
	taxRate        float64
	taxAmount      kernel.Money
	taxCountry     string
	taxState       string
	shippingMethod string
	shippingCost   kernel.Money
	rateQuote      *RateQuote
	total          kernel.Money

	guard guard.ConstructorGuard
}

// NewDraft assembles a Draft from priced components. At least one line item
// is required; the subtotal must equal the sum of line totals. The total is
// computed here, never supplied.
func NewDraft(
	lines []LineItem,
	subtotal, discountAmount kernel.Money,
	appliedCoupon *AppliedCoupon,
	taxRate float64,
	taxAmount kernel.Money,
	taxCountry, taxState string,
	shippingMethod string,
	shippingCost kernel.Money,
	rateQuote *RateQuote,
) (Draft, error) {
	if len(lines) == 0 {
		return Draft{}, errs.NewValueIsRequiredError("lines")
	}

	var lineSum kernel.Money
	for _, li := range lines {
		if err := li.Validate(); err != nil {
			return Draft{}, err
		}
		lineSum = lineSum.Add(li.Total())
	}
	if !lineSum.IsEqual(subtotal) {
		return Draft{}, errs.NewValueIsInvalidError("subtotal")
	}

	// Flooring happens once, on the final sum: an intermediate floor would
	// silently swallow part of an oversized discount before tax and shipping
	// are added back in.
	raw := subtotal.Amount() - discountAmount.Amount() + taxAmount.Amount() + shippingCost.Amount()
	if raw < 0 {
		raw = 0
	}
	total, err := kernel.NewMoney(raw)
	if err != nil {
		return Draft{}, err
	}

	return Draft{
		lines:          lines,
		subtotal:       subtotal,
		discountAmount: discountAmount,
		appliedCoupon:  appliedCoupon,
		taxRate:        taxRate,
		taxAmount:      taxAmount,
		taxCountry:     taxCountry,
		taxState:       taxState,
		shippingMethod: shippingMethod,
		shippingCost:   shippingCost,
		rateQuote:      rateQuote,
		total:          total,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Draft was created via NewDraft.
func (d Draft) Validate() error {
	return d.guard.Validate(ErrDraftIsNotConstructed)
}

// Lines returns the priced line items.
func (d Draft) Lines() []LineItem { return d.lines }

// Subtotal returns the sum of line totals before discount, tax, and shipping.
func (d Draft) Subtotal() kernel.Money { return d.subtotal }

// DiscountAmount returns the applied coupon discount, zero if none.
func (d Draft) DiscountAmount() kernel.Money { return d.discountAmount }

// AppliedCoupon returns the redeemed coupon snapshot, nil if none.
func (d Draft) AppliedCoupon() *AppliedCoupon { return d.appliedCoupon }

// TaxRate returns the applied tax percentage, zero if no rate matched.
func (d Draft) TaxRate() float64 { return d.taxRate }

// TaxAmount returns the computed (or overridden) tax amount.
func (d Draft) TaxAmount() kernel.Money { return d.taxAmount }

// TaxCountry returns the billing country the rate was resolved for.
func (d Draft) TaxCountry() string { return d.taxCountry }

// TaxState returns the billing state the rate was resolved for.
func (d Draft) TaxState() string { return d.taxState }

// ShippingMethod returns the requested shipping method.
func (d Draft) ShippingMethod() string { return d.shippingMethod }

// ShippingCost returns the shipping cost folded into the total.
func (d Draft) ShippingCost() kernel.Money { return d.shippingCost }

// RateQuote returns the trusted carrier quote snapshot, nil if none was supplied.
func (d Draft) RateQuote() *RateQuote { return d.rateQuote }

// Total returns the amount the customer owes.
func (d Draft) Total() kernel.Money { return d.total }

// Quantities returns the per-product quantity map needed by inventory
// reservation.
func (d Draft) Quantities() map[kernel.UUID]int {
	m := make(map[kernel.UUID]int, len(d.lines))
	for _, li := range d.lines {
		m[li.ProductID()] += li.Quantity()
	}
	return m
}
