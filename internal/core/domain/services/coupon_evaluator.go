package services

import (
	"context"
	"errors"

	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

// ErrCouponInvalid is returned when the submitted coupon code does not exist
// or the coupon has been deactivated. Checkout rejects the request rather
// than silently dropping the discount.
var ErrCouponInvalid = errors.New("coupon is invalid")

// ErrCouponNotApplicable is returned when the coupon exists and is active but
// none of the cart items fall within its product or category restrictions.
var ErrCouponNotApplicable = errors.New("coupon does not apply to any item in the order")

// CouponItem is one priced cart line presented for coupon evaluation.
// CategoryIDs are the categories the product belongs to; restriction
// matching considers both the product ID and its categories.
type CouponItem struct {
	ProductID   kernel.UUID
	CategoryIDs []kernel.UUID
	UnitPrice   kernel.Money
	Quantity    int
}

// CouponResult is the outcome of a successful evaluation.
type CouponResult struct {
	// Coupon is the matched, active coupon.
	Coupon *coupon.Coupon

	// Discount is the amount to subtract from the order subtotal.
	// It never exceeds the eligible subtotal.
	Discount kernel.Money

	// EligibleProductIDs lists the products the restriction matched,
	// in cart order.
	EligibleProductIDs []kernel.UUID
}

// CouponEvaluator is a domain service that resolves a coupon code against
// the priced cart and computes the resulting discount.
//
// Business rules:
//   - Unknown or inactive codes fail with ErrCouponInvalid
//   - A restricted coupon matching no cart item fails with ErrCouponNotApplicable
//   - Percentage coupons discount the eligible subtotal by the coupon rate
//   - Fixed coupons discount by the coupon amount, capped at the eligible subtotal
type CouponEvaluator struct {
	coupons ports.CouponRepository
}

// NewCouponEvaluator creates a CouponEvaluator backed by the given
// coupon repository.
func NewCouponEvaluator(coupons ports.CouponRepository) (*CouponEvaluator, error) {
	if coupons == nil {
		return nil, errs.NewValueIsRequiredError("coupons")
	}
	return &CouponEvaluator{coupons: coupons}, nil
}

// Evaluate resolves the code and computes the discount for the given items.
// The items must already carry their effective (sale-adjusted) unit prices;
// the discount is derived from exactly the prices the buyer is charged.
func (e *CouponEvaluator) Evaluate(ctx context.Context, code string, items []CouponItem) (CouponResult, error) {
	if code == "" {
		return CouponResult{}, errs.NewValueIsRequiredError("couponCode")
	}
	if len(items) == 0 {
		return CouponResult{}, errs.NewValueIsRequiredError("items")
	}

	c, err := e.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return CouponResult{}, ErrCouponInvalid
		}
		return CouponResult{}, err
	}
	if !c.IsActive() {
		return CouponResult{}, ErrCouponInvalid
	}

	eligibleSubtotal := kernel.Money{}
	eligibleIDs := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		if !c.AppliesTo(item.ProductID, item.CategoryIDs) {
			continue
		}
		eligibleSubtotal = eligibleSubtotal.Add(item.UnitPrice.MulQuantity(item.Quantity))
		eligibleIDs = append(eligibleIDs, item.ProductID)
	}
	if len(eligibleIDs) == 0 || eligibleSubtotal.IsZero() {
		return CouponResult{}, ErrCouponNotApplicable
	}

	var discount kernel.Money
	switch c.Type() {
	case coupon.Percentage:
		discount = eligibleSubtotal.ApplyRate(c.Amount())
	case coupon.Fixed:
		fixed, fixedErr := kernel.NewMoney(c.Amount())
		if fixedErr != nil {
			return CouponResult{}, fixedErr
		}
		discount = fixed.Min(eligibleSubtotal)
	default:
		return CouponResult{}, errs.NewValueIsInvalidError("couponType")
	}

	return CouponResult{Coupon: c, Discount: discount, EligibleProductIDs: eligibleIDs}, nil
}
