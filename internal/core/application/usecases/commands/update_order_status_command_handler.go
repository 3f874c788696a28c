package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/ports"
)

// ErrLabelIssuanceFailed indicates the carrier could not produce a shipping
// label. The status update is rejected and the order keeps its prior status;
// shipped-without-label is not a reachable state.
var ErrLabelIssuanceFailed = errors.New("label issuance failed")

// UpdateOrderStatusCommandHandler moves an order through its state machine.
// The first transition into shipped buys a carrier label and records the
// shipment on the order; repeating the transition is a fulfillment no-op.
//
// Example:
//
//	handler := NewUpdateOrderStatusCommandHandler(uowFactory, orders, accounts, carrier, warehouse)
//	cmd, _ := NewUpdateOrderStatusCommand(orderID, order.Shipped)
//
//	updated, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrLabelIssuanceFailed) {
//	    // Carrier is down; the order is still in its prior status
//	    return
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory  OrderUoWFactory
	orders      ports.OrderRepository
	accounts    ports.AccountRepository
	carrier     ports.CarrierGateway
	fromAddress kernel.Address
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
// fromAddress is the warehouse origin printed on shipping labels.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	orders ports.OrderRepository,
	accounts ports.AccountRepository,
	carrier ports.CarrierGateway,
	fromAddress kernel.Address,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		orders:      orders,
		accounts:    accounts,
		carrier:     carrier,
		fromAddress: fromAddress,
	}
}

// Handle processes the status update and returns the updated order.
// The carrier call happens before the transaction opens so a slow provider
// never holds a database transaction; the transition itself is re-checked and
// applied transactionally.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()

	current, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !current.Status().CanTransitionTo(cmd.Target()) {
		_, transitionErr := current.Status().Transition(cmd.Target())
		return nil, transitionErr
	}

	// This check reads outside the transaction: two concurrent shipped
	// requests can both pass it and both purchase a label. applyTransition
	// re-reads under the transaction and records only the first shipment;
	// the loser's label is discarded unrecorded. Accepted cost: carrier
	// labels are voidable, the duplicate purchase is bounded at one per
	// race.
	var shipment *order.Shipment
	needsLabel := cmd.Target() == order.Shipped && !current.HasShipment()
	if needsLabel {
		issued, issueErr := h.issueLabel(ctx, current, now)
		if issueErr != nil {
			return nil, issueErr
		}
		shipment = &issued
	}

	return h.applyTransition(ctx, cmd, shipment, now)
}

func (h *UpdateOrderStatusCommandHandler) issueLabel(ctx context.Context, current *order.Order, now time.Time) (order.Shipment, error) {
	req, err := labelRequestFor(current, h.fromAddress)
	if err != nil {
		return order.Shipment{}, err
	}

	label, err := h.carrier.CreateLabel(ctx, req)
	if err != nil {
		return order.Shipment{}, fmt.Errorf("%w: %w", ErrLabelIssuanceFailed, err)
	}

	cost, err := kernel.NewMoney(label.Cost)
	if err != nil {
		return order.Shipment{}, err
	}

	return order.NewShipment(
		label.LabelID, label.ShipmentID, label.TrackingNumber, label.TrackingURL,
		label.Carrier, label.ServiceCode, label.LabelURL,
		cost, label.EstimatedDelivery, now,
	)
}

func (h *UpdateOrderStatusCommandHandler) applyTransition(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
	shipment *order.Shipment,
	now time.Time,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	firstShipment := shipment != nil && !current.HasShipment()
	if firstShipment {
		if err = current.Ship(*shipment); err != nil {
			return nil, err
		}
	}
	if err = current.ChangeStatus(cmd.Target()); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, current); err != nil {
		return nil, err
	}

	if firstShipment {
		buyer, buyerErr := h.accounts.Get(ctx, current.AccountID())
		if buyerErr != nil {
			return nil, buyerErr
		}
		confirmation, msgErr := newShippingConfirmationMessage(current, buyer.Email(), now)
		if msgErr != nil {
			return nil, msgErr
		}
		if err = uow.OutboxRepository().Add(ctx, confirmation); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return current, nil
}
