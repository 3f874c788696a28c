package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout/internal/core/domain/model/kernel"
)

// ErrInsufficientStock indicates a reservation could not be made because at
// least one product lacks the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports which product ran out during a reservation.
type InsufficientStockError struct {
	ProductID kernel.UUID
	Requested int
}

// NewInsufficientStockError creates an InsufficientStockError for a product.
func NewInsufficientStockError(productID kernel.UUID, requested int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%v: product %s, requested %d", ErrInsufficientStock, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ReservationLine is one product/quantity pair in an inventory reservation.
// Backorderable products are decremented unconditionally and may go negative;
// other products only decrement when enough stock remains.
type ReservationLine struct {
	ProductID      kernel.UUID
	Quantity       int
	AllowBackorder bool
}

// InventoryStore defines the contract for atomic multi-product stock
// reservations. A successful Reserve places a hold that must later be either
// committed or released; holds older than the configured TTL are reclaimed
// by ReleaseExpired.
type InventoryStore interface {
	// Reserve atomically decrements stock for every line and records a hold
	// identified by the returned token. If any non-backorderable line lacks
	// stock, decrements already made for this reservation are rolled back
	// and an InsufficientStockError for the failing product is returned.
	Reserve(ctx context.Context, lines []ReservationLine, ttl time.Duration) (token string, err error)

	// Commit finalizes a hold: the decrements become permanent and the hold
	// record is removed. Committing an unknown or expired token is a no-op.
	Commit(ctx context.Context, token string) error

	// Release cancels a hold and re-increments the held quantities.
	// Releasing an unknown or already-released token is a no-op.
	Release(ctx context.Context, token string) error

	// ReleaseExpired releases every hold whose deadline passed before now
	// and returns how many holds were reclaimed.
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)
}
