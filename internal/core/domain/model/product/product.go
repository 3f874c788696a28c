// Package product models the catalog snapshot the checkout core works with.
// The catalog itself (CRUD, categories, media) is an external collaborator;
// this package only carries what pricing and reservation need: the list price,
// an optional sale window, category membership, and the backorder policy.
package product

import (
	"errors"
	"fmt"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned when a Product instance was not
// created through the NewProduct factory method.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a read-only snapshot of a catalog product at checkout time.
//
// Invariants:
//   - Must have a valid unique identifier and a non-empty name
//   - A sale price, when present, must be lower than the list price
//   - The sale window bounds are both optional
type Product struct {
	id             kernel.UUID
	name           string
	price          kernel.Money
	salePrice      *kernel.Money
	saleStart      *time.Time
	saleEnd        *time.Time
	categoryIDs    []kernel.UUID
	allowBackorder bool

	isConstructed bool
}

// NewProduct creates a Product snapshot with validation.
// salePrice, saleStart, and saleEnd are optional; when salePrice is set it
// must be strictly lower than price.
func NewProduct(
	id kernel.UUID,
	name string,
	price kernel.Money,
	salePrice *kernel.Money,
	saleStart, saleEnd *time.Time,
	categoryIDs []kernel.UUID,
	allowBackorder bool,
) (*Product, error) {
	p := &Product{
		saleStart:      saleStart,
		saleEnd:        saleEnd,
		categoryIDs:    categoryIDs,
		allowBackorder: allowBackorder,
		isConstructed:  true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setPrices(price, salePrice),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the Product instance was properly constructed through NewProduct.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Name returns the product name as displayed on the line item.
func (p *Product) Name() string {
	return p.name
}

// Price returns the list price.
func (p *Product) Price() kernel.Money {
	return p.price
}

// SalePrice returns the sale price, nil when the product is not on sale.
func (p *Product) SalePrice() *kernel.Money {
	return p.salePrice
}

// SaleStart returns the lower bound of the sale window, nil meaning open.
func (p *Product) SaleStart() *time.Time {
	return p.saleStart
}

// SaleEnd returns the upper bound of the sale window, nil meaning open.
func (p *Product) SaleEnd() *time.Time {
	return p.saleEnd
}

// AllowBackorder reports whether the product may be sold past zero stock.
func (p *Product) AllowBackorder() bool {
	return p.allowBackorder
}

// CategoryIDs returns the ids of the categories the product belongs to.
func (p *Product) CategoryIDs() []kernel.UUID {
	return p.categoryIDs
}

// InCategory reports whether the product belongs to the given category.
func (p *Product) InCategory(categoryID kernel.UUID) bool {
	for _, id := range p.categoryIDs {
		if id.IsEqual(categoryID) {
			return true
		}
	}
	return false
}

// SaleActiveAt reports whether the sale window covers the given instant.
// A sale is active when a sale price exists and now falls within the
// optional [saleStart, saleEnd] bounds.
func (p *Product) SaleActiveAt(now time.Time) bool {
	if p.salePrice == nil {
		return false
	}
	if p.saleStart != nil && now.Before(*p.saleStart) {
		return false
	}
	if p.saleEnd != nil && now.After(*p.saleEnd) {
		return false
	}
	return true
}

// EffectivePrice returns the unit price in effect at the given instant:
// the sale price while the sale window is active, the list price otherwise.
func (p *Product) EffectivePrice(now time.Time) kernel.Money {
	if p.SaleActiveAt(now) {
		return *p.salePrice
	}
	return p.price
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setPrices(price kernel.Money, salePrice *kernel.Money) error {
	if salePrice != nil && salePrice.Amount() >= price.Amount() {
		return errs.NewValueIsInvalidErrorWithCause("salePrice",
			fmt.Errorf("%v is not lower than the list price %v", salePrice.Amount(), price.Amount()))
	}
	p.price = price
	p.salePrice = salePrice
	return nil
}
