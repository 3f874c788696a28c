package order

import (
	"errors"
	"time"

	"checkout/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrShipmentAlreadyRecorded is returned when attempting to attach a second
	// shipment to an order. The shipment sub-record is write-once.
	ErrShipmentAlreadyRecorded = errors.New("order already has a shipment recorded")
)

// Order is the aggregate root of the checkout core. It is created once, after
// inventory has been reserved and payment verified, and afterwards is mutated
// only by status transitions. Orders are never deleted in normal operation.
//
// Invariants:
//   - Must have valid order and account identifiers and at least one line item
//   - total = max(0, subtotal − discountAmount + taxAmount + shippingCost),
//     all money values non-negative and rounded to 2 decimals (guaranteed by
//     the Draft the order is built from)
//   - The shipment sub-record is written exactly once, at the first
//     transition into the shipped status
//   - Status transitions follow the state machine defined on Status
type Order struct {
	id        kernel.UUID
	accountID kernel.UUID

	lines          []LineItem
	subtotal       kernel.Money
	discountAmount kernel.Money
	appliedCoupon  *AppliedCoupon
	taxRate        float64
	taxAmount      kernel.Money
	taxCountry     string
	taxState       string
	shippingMethod string
	shippingCost   kernel.Money
	rateQuote      *RateQuote
	total          kernel.Money

	payment         Payment
	status          Status
	shippingAddress *kernel.Address
	shipment        *Shipment
	createdAt       time.Time

	isConstructed bool
}

// NewOrder creates an Order from a priced draft and a verified payment.
// The initial status is Processing when the payment settled and Pending
// otherwise; nothing else sets the initial status.
func NewOrder(
	id, accountID kernel.UUID,
	draft Draft,
	payment Payment,
	shippingAddress *kernel.Address,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), accountID.Validate(), draft.Validate(), payment.Validate()); err != nil {
		return nil, err
	}
	if shippingAddress != nil {
		if err := shippingAddress.Validate(); err != nil {
			return nil, err
		}
	}

	status := Pending
	if payment.IsPaid() {
		status = Processing
	}

	return &Order{
		id:              id,
		accountID:       accountID,
		lines:           draft.Lines(),
		subtotal:        draft.Subtotal(),
		discountAmount:  draft.DiscountAmount(),
		appliedCoupon:   draft.AppliedCoupon(),
		taxRate:         draft.TaxRate(),
		taxAmount:       draft.TaxAmount(),
		taxCountry:      draft.TaxCountry(),
		taxState:        draft.TaxState(),
		shippingMethod:  draft.ShippingMethod(),
		shippingCost:    draft.ShippingCost(),
		rateQuote:       draft.RateQuote(),
		total:           draft.Total(),
		payment:         payment,
		status:          status,
		shippingAddress: shippingAddress,
		createdAt:       now,
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence. The stored status and
// shipment are trusted; the status must still be a valid enum value.
func RestoreOrder(
	id, accountID kernel.UUID,
	draft Draft,
	payment Payment,
	status Status,
	shippingAddress *kernel.Address,
	shipment *Shipment,
	createdAt time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o, err := NewOrder(id, accountID, draft, payment, shippingAddress, createdAt)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.shipment = shipment
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// AccountID returns the owning account's identifier.
func (o *Order) AccountID() kernel.UUID { return o.accountID }

// Lines returns the order's line items.
func (o *Order) Lines() []LineItem { return o.lines }

// Subtotal returns the pre-discount sum of line totals.
func (o *Order) Subtotal() kernel.Money { return o.subtotal }

// DiscountAmount returns the applied coupon discount.
func (o *Order) DiscountAmount() kernel.Money { return o.discountAmount }

// AppliedCoupon returns the redeemed coupon snapshot, nil if none.
func (o *Order) AppliedCoupon() *AppliedCoupon { return o.appliedCoupon }

// TaxRate returns the applied tax percentage.
func (o *Order) TaxRate() float64 { return o.taxRate }

// TaxAmount returns the tax folded into the total.
func (o *Order) TaxAmount() kernel.Money { return o.taxAmount }

// TaxCountry returns the billing country used for tax resolution.
func (o *Order) TaxCountry() string { return o.taxCountry }

// TaxState returns the billing state used for tax resolution.
func (o *Order) TaxState() string { return o.taxState }

// ShippingMethod returns the requested shipping method.
func (o *Order) ShippingMethod() string { return o.shippingMethod }

// ShippingCost returns the shipping cost folded into the total.
func (o *Order) ShippingCost() kernel.Money { return o.shippingCost }

// RateQuote returns the carrier quote snapshot, nil if none was supplied.
func (o *Order) RateQuote() *RateQuote { return o.rateQuote }

// Total returns the amount the customer owes.
func (o *Order) Total() kernel.Money { return o.total }

// Payment returns the payment attached to the order.
func (o *Order) Payment() Payment { return o.payment }

// Status returns the current status of the order.
func (o *Order) Status() Status { return o.status }

// ShippingAddress returns the ship-to address snapshot, nil if none was provided.
func (o *Order) ShippingAddress() *kernel.Address { return o.shippingAddress }

// Shipment returns the shipment sub-record, nil until the order ships.
func (o *Order) Shipment() *Shipment { return o.shipment }

// HasShipment reports whether a shipment has been recorded.
func (o *Order) HasShipment() bool { return o.shipment != nil }

// CreatedAt returns when the order was committed.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// ProductIDs returns the distinct product ids on the order, used to prune
// the owning account's stored cart after checkout.
func (o *Order) ProductIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(o.lines))
	ids := make([]kernel.UUID, 0, len(o.lines))
	for _, li := range o.lines {
		if _, ok := seen[li.ProductID()]; ok {
			continue
		}
		seen[li.ProductID()] = struct{}{}
		ids = append(ids, li.ProductID())
	}
	return ids
}

// ChangeStatus transitions the order to the target status. It does not touch
// the shipment sub-record; use Ship for the first transition into shipped.
func (o *Order) ChangeStatus(target Status) error {
	newStatus, err := o.status.Transition(target)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Ship records the shipment and transitions the order into the shipped
// status. The shipment sub-record is write-once: calling Ship on an order
// that already has one returns ErrShipmentAlreadyRecorded. Callers that want
// idempotent re-ship behavior check HasShipment first and fall back to
// ChangeStatus(Shipped), which is a legal no-op transition.
func (o *Order) Ship(shipment Shipment) error {
	if err := shipment.Validate(); err != nil {
		return err
	}
	if o.shipment != nil {
		return ErrShipmentAlreadyRecorded
	}

	newStatus, err := o.status.Transition(Shipped)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.shipment = &shipment
	return nil
}
