package services

import (
	"context"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/product"
	"checkout/internal/pkg/errs"
)

// Flat shipping cost per method, charged when the request carries no
// carrier rate quote.
var flatShippingCosts = map[string]float64{
	"standard":  5.00,
	"express":   12.00,
	"overnight": 25.00,
}

const defaultShippingCost = 5.00

// RequestedLine is one product/quantity pair from a checkout request.
type RequestedLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// PricingInput carries everything BuildDraft needs to price an order.
// Products must contain every requested product; the caller resolves them
// from the catalog beforehand.
type PricingInput struct {
	Lines    []RequestedLine
	Products map[kernel.UUID]*product.Product

	// CouponCode, when non-empty, must resolve to an active, applicable
	// coupon or pricing fails.
	CouponCode string

	// TaxCountry and TaxState locate the destination for tax purposes.
	TaxCountry string
	TaxState   string

	// TaxOverride, when set, replaces rate resolution entirely. Only
	// trusted internal callers may supply it.
	TaxOverride *kernel.Money

	ShippingMethod string

	// RateQuote, when set, is a carrier quote the buyer already selected;
	// its price is charged verbatim. Otherwise a flat cost keyed by
	// ShippingMethod applies.
	RateQuote *order.RateQuote

	Now time.Time
}

// PricingService is a domain service that assembles an order draft from a
// checkout request: sale-aware unit prices, coupon discount, destination tax
// and shipping cost, combined into a single immutable Draft.
//
// Business rules:
//   - Unit prices come from the product's sale window at pricing time
//   - The discount applies before tax: tax is charged on subtotal − discount
//   - A supplied rate quote's price is charged verbatim; otherwise a flat
//     per-method cost applies
//   - Every failure aborts pricing; a draft is never partially priced
type PricingService struct {
	coupons *CouponEvaluator
	taxes   *TaxResolver
}

// NewPricingService creates a PricingService from its collaborating services.
func NewPricingService(coupons *CouponEvaluator, taxes *TaxResolver) (*PricingService, error) {
	if coupons == nil {
		return nil, errs.NewValueIsRequiredError("coupons")
	}
	if taxes == nil {
		return nil, errs.NewValueIsRequiredError("taxes")
	}
	return &PricingService{coupons: coupons, taxes: taxes}, nil
}

// BuildDraft prices a checkout request into an order draft.
func (s *PricingService) BuildDraft(ctx context.Context, in PricingInput) (order.Draft, error) {
	if len(in.Lines) == 0 {
		return order.Draft{}, errs.NewValueIsRequiredError("lines")
	}

	lines := make([]order.LineItem, 0, len(in.Lines))
	couponItems := make([]CouponItem, 0, len(in.Lines))
	subtotal := kernel.Money{}
	for _, requested := range in.Lines {
		p, ok := in.Products[requested.ProductID]
		if !ok {
			return order.Draft{}, errs.NewObjectNotFoundError("productID", requested.ProductID.String())
		}

		unitPrice := p.EffectivePrice(in.Now)
		line, err := order.NewLineItem(p.ID(), p.Name(), unitPrice, requested.Quantity)
		if err != nil {
			return order.Draft{}, err
		}
		lines = append(lines, line)
		subtotal = subtotal.Add(line.Total())
		couponItems = append(couponItems, CouponItem{
			ProductID:   p.ID(),
			CategoryIDs: p.CategoryIDs(),
			UnitPrice:   unitPrice,
			Quantity:    requested.Quantity,
		})
	}

	discount := kernel.Money{}
	var appliedCoupon *order.AppliedCoupon
	if in.CouponCode != "" {
		result, err := s.coupons.Evaluate(ctx, in.CouponCode, couponItems)
		if err != nil {
			return order.Draft{}, err
		}
		discount = result.Discount
		appliedCoupon = &order.AppliedCoupon{
			Code:   result.Coupon.Code(),
			Type:   result.Coupon.Type(),
			Amount: result.Coupon.Amount(),
		}
	}

	taxable := subtotal.Sub(discount)
	taxAmount := kernel.Money{}
	taxPercent := 0.0
	if in.TaxOverride != nil {
		taxAmount = *in.TaxOverride
	} else {
		rate, err := s.taxes.Resolve(ctx, in.TaxCountry, in.TaxState)
		if err != nil {
			return order.Draft{}, err
		}
		if rate != nil {
			taxPercent = rate.Percent()
			taxAmount = taxable.ApplyRate(taxPercent)
		}
	}

	shippingCost, err := s.shippingCost(in)
	if err != nil {
		return order.Draft{}, err
	}

	return order.NewDraft(
		lines,
		subtotal, discount, appliedCoupon,
		taxPercent, taxAmount, in.TaxCountry, in.TaxState,
		in.ShippingMethod, shippingCost, in.RateQuote,
	)
}

func (s *PricingService) shippingCost(in PricingInput) (kernel.Money, error) {
	if in.RateQuote != nil {
		return in.RateQuote.Price, nil
	}
	cost, ok := flatShippingCosts[in.ShippingMethod]
	if !ok {
		cost = defaultShippingCost
	}
	return kernel.NewMoney(cost)
}
