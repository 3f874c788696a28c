// Package taxrate models location-based tax rates. A rate is keyed by
// (country, state); a state-specific rate takes precedence over the
// country-level default with an empty state.
package taxrate

import (
	"errors"
	"fmt"
	"strings"

	"checkout/internal/pkg/errs"
)

// ErrRateIsNotConstructed is returned when a Rate instance was not created
// through the NewRate factory method.
var ErrRateIsNotConstructed = errors.New("Rate must be created via NewRate constructor")

// NormalizeKey canonicalizes a country or state value for lookup:
// surrounding whitespace is stripped and the comparison is case-insensitive.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Rate is a tax rate for a (country, state) pair. An empty state marks the
// country-level default. At most one rate exists per pair.
type Rate struct {
	country string
	state   string
	percent float64

	isConstructed bool
}

// NewRate creates a Rate with validation. Country is required; state is
// optional (empty means the country default). Both keys are normalized.
// The percent is a percentage, e.g. 8 for an 8% rate.
func NewRate(country, state string, percent float64) (*Rate, error) {
	if NormalizeKey(country) == "" {
		return nil, errs.NewValueIsRequiredError("country")
	}
	if percent < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("percent", fmt.Errorf("%v is negative", percent))
	}

	return &Rate{
		country:       NormalizeKey(country),
		state:         NormalizeKey(state),
		percent:       percent,
		isConstructed: true,
	}, nil
}

// Validate ensures the Rate instance was properly constructed through NewRate.
func (r *Rate) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRateIsNotConstructed
	}
	return nil
}

// Country returns the normalized country key.
func (r *Rate) Country() string {
	return r.country
}

// State returns the normalized state key, empty for the country default.
func (r *Rate) State() string {
	return r.state
}

// Percent returns the tax rate as a percentage.
func (r *Rate) Percent() float64 {
	return r.percent
}

// IsCountryDefault reports whether this rate is the country-level fallback.
func (r *Rate) IsCountryDefault() bool {
	return r.state == ""
}
