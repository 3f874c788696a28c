package ports

import (
	"context"

	"checkout/internal/core/domain/model/coupon"
)

// CouponRepository defines the read contract for coupon lookups during
// checkout. Coupon codes are matched case-insensitively by the adapter.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its code.
	// Returns errs.ObjectNotFoundError when no coupon with the code exists.
	GetByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}
