package services

import (
	"context"
	"errors"

	"checkout/internal/core/domain/model/taxrate"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

// TaxResolver is a domain service that finds the tax rate applicable to a
// shipping destination.
//
// Business rules:
//   - Lookup keys are normalized (lowercase, trimmed) before matching
//   - An exact (country, state) rate wins over the country-wide default
//   - The country-wide default is a rate stored with an empty state
//   - No configured rate means no tax, never an error
type TaxResolver struct {
	rates ports.TaxRateRepository
}

// NewTaxResolver creates a TaxResolver backed by the given rate repository.
func NewTaxResolver(rates ports.TaxRateRepository) (*TaxResolver, error) {
	if rates == nil {
		return nil, errs.NewValueIsRequiredError("rates")
	}
	return &TaxResolver{rates: rates}, nil
}

// Resolve returns the rate for the destination, or nil when the destination
// is untaxed. A nil result with a nil error means a zero tax amount.
func (r *TaxResolver) Resolve(ctx context.Context, country, state string) (*taxrate.Rate, error) {
	country = taxrate.NormalizeKey(country)
	state = taxrate.NormalizeKey(state)
	if country == "" {
		return nil, nil
	}

	if state != "" {
		rate, err := r.rates.Get(ctx, country, state)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	rate, err := r.rates.Get(ctx, country, "")
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rate, nil
}
