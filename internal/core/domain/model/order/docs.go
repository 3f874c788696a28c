// Package order provides domain entities and business logic for order
// management in the checkout system. It implements the Order aggregate root
// with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root carrying line items, pricing, payment, and shipment
//   - Draft: The immutable priced result of a checkout attempt, from which orders are built
//   - LineItem: A purchased product with name and unit-price snapshots
//   - Payment: The verified payment attached to an order
//   - Shipment: The write-once carrier shipment sub-record
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders are created only after inventory reservation and payment verification
//   - total = max(0, subtotal − discountAmount + taxAmount + shippingCost)
//   - Status follows pending -> processing -> shipped -> delivered, with
//     canceled reachable from pending or processing
//   - The shipment sub-record is written exactly once, at the first transition
//     into shipped; repeated ship requests are idempotent
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
