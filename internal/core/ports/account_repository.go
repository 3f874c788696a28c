// Package ports defines the contracts between the application core and
// infrastructure adapters: repositories, external gateways and the unit of
// work. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"checkout/internal/core/domain/model/account"
	"checkout/internal/core/domain/model/kernel"
)

// AccountRepository defines the persistence contract for account aggregates.
type AccountRepository interface {
	// Get retrieves an account aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no account with the ID exists.
	Get(ctx context.Context, id kernel.UUID) (*account.Account, error)

	// Update persists changes to an existing account aggregate.
	Update(ctx context.Context, aggregate *account.Account) error
}
