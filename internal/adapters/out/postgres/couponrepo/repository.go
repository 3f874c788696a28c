// Package couponrepo provides read access to the coupon store for checkout.
package couponrepo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// CouponDTO represents the database structure for coupons. Codes are stored
// uppercase; restriction lists are jsonb arrays of UUIDs.
type CouponDTO struct {
	Code        string `gorm:"primaryKey"`
	Type        string
	Amount      float64
	IsActive    bool
	ProductIDs  []byte `gorm:"type:jsonb"`
	CategoryIDs []byte `gorm:"type:jsonb"`
}

// TableName overrides GORM's default naming to use "coupons".
func (CouponDTO) TableName() string {
	return "coupons"
}

// GormCouponRepository implements CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GORM coupon repository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// GetByCode retrieves a coupon by its code, matched case-insensitively.
func (r *GormCouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var dto CouponDTO
	err := r.db.WithContext(ctx).First(&dto, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("couponCode", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add saves a new coupon. Invalid coupons (percentage above 100, non-positive
// amount) are rejected by the domain constructor before touching the table.
func (r *GormCouponRepository) Add(ctx context.Context, c *coupon.Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(c)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func fromDomain(c *coupon.Coupon) (CouponDTO, error) {
	productIDs, err := marshalUUIDs(c.ProductIDs())
	if err != nil {
		return CouponDTO{}, err
	}
	categoryIDs, err := marshalUUIDs(c.CategoryIDs())
	if err != nil {
		return CouponDTO{}, err
	}

	return CouponDTO{
		Code:        c.Code(),
		Type:        c.Type().String(),
		Amount:      c.Amount(),
		IsActive:    c.IsActive(),
		ProductIDs:  productIDs,
		CategoryIDs: categoryIDs,
	}, nil
}

func toDomain(dto CouponDTO) (*coupon.Coupon, error) {
	couponType, err := coupon.TypeFromString(dto.Type)
	if err != nil {
		return nil, err
	}
	productIDs, err := unmarshalUUIDs(dto.ProductIDs)
	if err != nil {
		return nil, err
	}
	categoryIDs, err := unmarshalUUIDs(dto.CategoryIDs)
	if err != nil {
		return nil, err
	}

	return coupon.NewCoupon(dto.Code, couponType, dto.Amount, dto.IsActive, productIDs, categoryIDs)
}

func marshalUUIDs(ids []kernel.UUID) ([]byte, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return json.Marshal(raw)
}

func unmarshalUUIDs(data []byte) ([]kernel.UUID, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var raw []uuid.UUID
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
