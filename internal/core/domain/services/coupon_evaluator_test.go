package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/services"
)

func newEvaluator(t *testing.T, coupons ...*coupon.Coupon) *services.CouponEvaluator {
	t.Helper()
	repo := &stubCouponRepo{coupons: map[string]*coupon.Coupon{}}
	for _, c := range coupons {
		repo.coupons[c.Code()] = c
	}
	evaluator, err := services.NewCouponEvaluator(repo)
	require.NoError(t, err)
	return evaluator
}

func TestCouponEvaluator_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject unknown codes", func(t *testing.T) {
		evaluator := newEvaluator(t)

		_, err := evaluator.Evaluate(ctx, "NOPE", []services.CouponItem{
			{ProductID: kernel.NewUUID(), UnitPrice: money(t, 10), Quantity: 1},
		})

		assert.ErrorIs(t, err, services.ErrCouponInvalid)
	})

	t.Run("should reject inactive coupons", func(t *testing.T) {
		c, err := coupon.NewCoupon("OLD", coupon.Fixed, 5, false, nil, nil)
		require.NoError(t, err)
		evaluator := newEvaluator(t, c)

		_, err = evaluator.Evaluate(ctx, "OLD", []services.CouponItem{
			{ProductID: kernel.NewUUID(), UnitPrice: money(t, 10), Quantity: 1},
		})

		assert.ErrorIs(t, err, services.ErrCouponInvalid)
	})

	t.Run("should cap a fixed discount at the eligible subtotal", func(t *testing.T) {
		c, err := coupon.NewCoupon("BIG", coupon.Fixed, 100, true, nil, nil)
		require.NoError(t, err)
		evaluator := newEvaluator(t, c)

		result, err := evaluator.Evaluate(ctx, "BIG", []services.CouponItem{
			{ProductID: kernel.NewUUID(), UnitPrice: money(t, 10), Quantity: 2},
		})

		require.NoError(t, err)
		assert.InDelta(t, 20.00, result.Discount.Amount(), 0.001)
	})

	t.Run("should restrict the discount to matching products", func(t *testing.T) {
		eligible := kernel.NewUUID()
		other := kernel.NewUUID()
		c, err := coupon.NewCoupon("MUGS5", coupon.Fixed, 5, true, []kernel.UUID{eligible}, nil)
		require.NoError(t, err)
		evaluator := newEvaluator(t, c)

		result, err := evaluator.Evaluate(ctx, "MUGS5", []services.CouponItem{
			{ProductID: eligible, UnitPrice: money(t, 10), Quantity: 1},
			{ProductID: other, UnitPrice: money(t, 50), Quantity: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{eligible}, result.EligibleProductIDs)
		assert.InDelta(t, 5.00, result.Discount.Amount(), 0.001)
	})

	t.Run("should match by category membership", func(t *testing.T) {
		category := kernel.NewUUID()
		c, err := coupon.NewCoupon("CAT10", coupon.Percentage, 10, true, nil, []kernel.UUID{category})
		require.NoError(t, err)
		evaluator := newEvaluator(t, c)

		inCategory := kernel.NewUUID()
		result, err := evaluator.Evaluate(ctx, "CAT10", []services.CouponItem{
			{ProductID: inCategory, CategoryIDs: []kernel.UUID{category}, UnitPrice: money(t, 30), Quantity: 1},
			{ProductID: kernel.NewUUID(), UnitPrice: money(t, 70), Quantity: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{inCategory}, result.EligibleProductIDs)
		assert.InDelta(t, 3.00, result.Discount.Amount(), 0.001, "10 percent of the 30.00 eligible subtotal")
	})

	t.Run("should fail when nothing in the cart matches", func(t *testing.T) {
		c, err := coupon.NewCoupon("MUGS5", coupon.Fixed, 5, true, []kernel.UUID{kernel.NewUUID()}, nil)
		require.NoError(t, err)
		evaluator := newEvaluator(t, c)

		_, err = evaluator.Evaluate(ctx, "MUGS5", []services.CouponItem{
			{ProductID: kernel.NewUUID(), UnitPrice: money(t, 10), Quantity: 1},
		})

		assert.ErrorIs(t, err, services.ErrCouponNotApplicable)
	})

	t.Run("should fail when the eligible subtotal is zero", func(t *testing.T) {
		freebie := kernel.NewUUID()
		c, err := coupon.NewCoupon("FREE10", coupon.Percentage, 10, true, []kernel.UUID{freebie}, nil)
		require.NoError(t, err)
		evaluator := newEvaluator(t, c)

		_, err = evaluator.Evaluate(ctx, "FREE10", []services.CouponItem{
			{ProductID: freebie, UnitPrice: kernel.Money{}, Quantity: 1},
			{ProductID: kernel.NewUUID(), UnitPrice: money(t, 10), Quantity: 1},
		})

		assert.ErrorIs(t, err, services.ErrCouponNotApplicable)
	})
}
