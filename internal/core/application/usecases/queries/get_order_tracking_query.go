// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/guard"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery retrieves the shipment and live carrier tracking for
// one order.
//
// Example:
//
//	query, err := NewGetOrderTrackingQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	tracking, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve tracking: %w", err)
//	}
//	if !tracking.HasTracking {
//	    fmt.Println("order has not shipped yet")
//	}
type GetOrderTrackingQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTrackingQuery creates a query for one order's tracking state.
func NewGetOrderTrackingQuery(orderID kernel.UUID) (GetOrderTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTrackingQuery{}, err
	}

	return GetOrderTrackingQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

// OrderID returns the order whose tracking is requested.
func (q GetOrderTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

// ShipmentReadModel is the stored shipment snapshot in the read model.
type ShipmentReadModel struct {
	LabelID           string     `json:"labelId"`
	ShipmentID        string     `json:"shipmentId"`
	TrackingNumber    string     `json:"trackingNumber"`
	TrackingURL       string     `json:"trackingUrl"`
	CarrierCode       string     `json:"carrierCode"`
	ServiceCode       string     `json:"serviceCode"`
	LabelURL          string     `json:"labelUrl"`
	Cost              float64    `json:"cost"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	ShippedAt         time.Time  `json:"shippedAt"`
}

// GetOrderTrackingQueryResponse combines the stored shipment with the
// carrier's live tracking view. HasTracking is false for orders that never
// shipped; Tracking is nil in that case.
type GetOrderTrackingQueryResponse struct {
	HasTracking bool
	Shipment    *ShipmentReadModel
	Tracking    *ports.Tracking
}
