package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

// GetOrderTrackingQueryHandler reads the stored shipment snapshot directly
// from the database and asks the carrier for the live tracking history.
// Uses direct SQL for the read model in the CQRS pattern.
//
// Example:
//
//	handler := NewGetOrderTrackingQueryHandler(db, carrier)
//	query, _ := NewGetOrderTrackingQuery(orderID)
//
//	tracking, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("failed to get tracking: %v", err)
//	    return err
//	}
type GetOrderTrackingQueryHandler struct {
	db      *gorm.DB
	carrier ports.CarrierGateway
}

// NewGetOrderTrackingQueryHandler creates a handler for tracking queries.
// Requires a GORM database connection and the carrier gateway.
func NewGetOrderTrackingQueryHandler(db *gorm.DB, carrier ports.CarrierGateway) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db, carrier: carrier}
}

// Handle executes the tracking query. An order that exists but never shipped
// yields HasTracking=false without error; an unknown order id is an
// ObjectNotFoundError. A carrier failure surfaces the stored shipment with a
// nil Tracking rather than failing the whole query.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	var raw sql.NullString
	row := h.db.WithContext(ctx).Raw(`
		SELECT shipment
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderTrackingQueryResponse{}, err
	}

	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return GetOrderTrackingQueryResponse{HasTracking: false}, nil
	}

	var shipment ShipmentReadModel
	if err := json.Unmarshal([]byte(raw.String), &shipment); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response := GetOrderTrackingQueryResponse{
		HasTracking: true,
		Shipment:    &shipment,
	}

	tracking, err := h.carrier.GetTracking(ctx, shipment.CarrierCode, shipment.TrackingNumber)
	if err == nil {
		response.Tracking = &tracking
	}

	return response, nil
}
