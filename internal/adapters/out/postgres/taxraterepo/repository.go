// Package taxraterepo provides read access to location-based tax rates.
package taxraterepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"checkout/internal/core/domain/model/taxrate"
	"checkout/internal/pkg/errs"
)

// RateDTO represents the database structure for tax rates. Country and state
// are stored normalized (lowercase, trimmed); an empty state row is the
// country-level default.
type RateDTO struct {
	Country string `gorm:"primaryKey"`
	State   string `gorm:"primaryKey"`
	Percent float64
}

// TableName overrides GORM's default naming to use "tax_rates".
func (RateDTO) TableName() string {
	return "tax_rates"
}

// GormTaxRateRepository implements TaxRateRepository using GORM.
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GORM tax rate repository.
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// Get retrieves the rate for a (country, state) pair. Keys are normalized
// before lookup so callers may pass raw request values.
func (r *GormTaxRateRepository) Get(ctx context.Context, country, state string) (*taxrate.Rate, error) {
	var dto RateDTO
	err := r.db.WithContext(ctx).
		First(&dto, "country = ? AND state = ?", taxrate.NormalizeKey(country), taxrate.NormalizeKey(state)).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("taxRate", country+"/"+state)
		}
		return nil, err
	}

	return taxrate.NewRate(dto.Country, dto.State, dto.Percent)
}

// Add saves a new tax rate.
func (r *GormTaxRateRepository) Add(ctx context.Context, rate *taxrate.Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}

	dto := RateDTO{
		Country: rate.Country(),
		State:   rate.State(),
		Percent: rate.Percent(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
