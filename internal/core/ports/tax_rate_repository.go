package ports

import (
	"context"

	"checkout/internal/core/domain/model/taxrate"
)

// TaxRateRepository defines the read contract for tax rate lookups.
// Keys are stored normalized (lowercase, trimmed); callers pass raw values
// and the adapter normalizes before matching.
type TaxRateRepository interface {
	// Get retrieves the rate configured for the exact (country, state) pair.
	// A country-wide default is stored with an empty state.
	// Returns errs.ObjectNotFoundError when no rate is configured.
	Get(ctx context.Context, country, state string) (*taxrate.Rate, error)
}
