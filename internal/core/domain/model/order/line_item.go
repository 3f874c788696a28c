package order

import (
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when validating a LineItem that was
// not created via NewLineItem.
var ErrLineItemIsNotConstructed = errs.NewValueIsRequiredError("LineItem must be created via NewLineItem")

// LineItem is one purchased product on an order. The name and unit price are
// snapshots taken at order time and never change afterwards, even if the
// catalog product is repriced or renamed.
type LineItem struct {
	productID kernel.UUID
	name      string
	unitPrice kernel.Money
	quantity  int

	guard guard.ConstructorGuard
}

// NewLineItem creates a LineItem with validation.
// Quantity must be a positive integer.
func NewLineItem(productID kernel.UUID, name string, unitPrice kernel.Money, quantity int) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	return LineItem{
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the LineItem was created via NewLineItem.
func (li LineItem) Validate() error {
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the purchased product's identifier.
func (li LineItem) ProductID() kernel.UUID { return li.productID }

// Name returns the product name snapshot.
func (li LineItem) Name() string { return li.name }

// UnitPrice returns the unit price snapshot.
func (li LineItem) UnitPrice() kernel.Money { return li.unitPrice }

// Quantity returns the purchased quantity.
func (li LineItem) Quantity() int { return li.quantity }

// Total returns unit price times quantity.
func (li LineItem) Total() kernel.Money {
	return li.unitPrice.MulQuantity(li.quantity)
}
