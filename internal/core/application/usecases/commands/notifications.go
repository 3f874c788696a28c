package commands

import (
	"fmt"
	"strings"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/outbox"
)

// Notification builders turn order events into outbox messages. The messages
// are persisted in the same transaction as the event and delivered later by
// the notification worker.

func newOrderConfirmationMessage(o *order.Order, recipient string, now time.Time) (*outbox.Message, error) {
	subject := fmt.Sprintf("Order %s confirmed", o.ID())
	return outbox.NewMessage(
		kernel.NewUUID(), outbox.KindOrderConfirmation, o.ID(),
		[]string{recipient}, subject, orderSummaryBody(o), now,
	)
}

func newStaffAlertMessage(o *order.Order, recipients []string, now time.Time) (*outbox.Message, error) {
	subject := fmt.Sprintf("New order %s (%.2f)", o.ID(), o.Total().Amount())
	return outbox.NewMessage(
		kernel.NewUUID(), outbox.KindStaffAlert, o.ID(),
		recipients, subject, orderSummaryBody(o), now,
	)
}

func newShippingConfirmationMessage(o *order.Order, recipient string, now time.Time) (*outbox.Message, error) {
	shipment := o.Shipment()
	subject := fmt.Sprintf("Order %s has shipped", o.ID())

	var b strings.Builder
	fmt.Fprintf(&b, "Your order %s is on its way.\n", o.ID())
	fmt.Fprintf(&b, "Carrier: %s\n", shipment.CarrierCode())
	fmt.Fprintf(&b, "Tracking number: %s\n", shipment.TrackingNumber())
	if shipment.TrackingURL() != "" {
		fmt.Fprintf(&b, "Track it at %s\n", shipment.TrackingURL())
	}

	return outbox.NewMessage(
		kernel.NewUUID(), outbox.KindShippingConfirmation, o.ID(),
		[]string{recipient}, subject, b.String(), now,
	)
}

func orderSummaryBody(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n\n", o.ID())
	for _, line := range o.Lines() {
		fmt.Fprintf(&b, "%d x %s at %.2f\n", line.Quantity(), line.Name(), line.UnitPrice().Amount())
	}
	fmt.Fprintf(&b, "\nSubtotal: %.2f\n", o.Subtotal().Amount())
	if !o.DiscountAmount().IsZero() {
		fmt.Fprintf(&b, "Discount: -%.2f\n", o.DiscountAmount().Amount())
	}
	fmt.Fprintf(&b, "Tax: %.2f\n", o.TaxAmount().Amount())
	fmt.Fprintf(&b, "Shipping: %.2f\n", o.ShippingCost().Amount())
	fmt.Fprintf(&b, "Total: %.2f\n", o.Total().Amount())
	return b.String()
}
