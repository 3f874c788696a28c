package ports

import (
	"context"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/product"
)

// Catalog defines the read contract for product lookups during checkout.
type Catalog interface {
	// GetProducts retrieves the products for the given IDs.
	// Returns errs.ObjectNotFoundError naming the first missing ID if any
	// requested product does not exist.
	GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error)
}
