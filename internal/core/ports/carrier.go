package ports

import (
	"context"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
)

// Parcel describes the physical shipment to rate or label.
type Parcel struct {
	WeightOunces float64
}

// LabelRequest carries everything the carrier needs to issue a label.
type LabelRequest struct {
	OrderID     kernel.UUID
	ToAddress   kernel.Address
	FromAddress kernel.Address
	Parcel      Parcel
	Carrier     string
	ServiceCode string
}

// Label is an issued shipping label with its tracking identifiers.
type Label struct {
	LabelID           string
	ShipmentID        string
	TrackingNumber    string
	TrackingURL       string
	Carrier           string
	ServiceCode       string
	LabelURL          string
	Cost              float64
	EstimatedDelivery *time.Time
}

// RateRequest asks the carrier for shipping rates to an address.
type RateRequest struct {
	ToAddress   kernel.Address
	FromAddress kernel.Address
	Parcel      Parcel
}

// TrackingEvent is one scan in a shipment's tracking history.
type TrackingEvent struct {
	Timestamp   time.Time
	Location    string
	Description string
}

// Tracking is the carrier's current view of a shipment.
type Tracking struct {
	Status            string
	StatusDetail      string
	EstimatedDelivery *time.Time
	Events            []TrackingEvent
}

// CarrierGateway defines the contract with the shipping provider for rates,
// label issuance and tracking.
type CarrierGateway interface {
	// GetRates retrieves available rate quotes for a shipment.
	GetRates(ctx context.Context, req RateRequest) ([]order.RateQuote, error)

	// CreateLabel purchases a shipping label. Label issuance is required
	// before an order may transition to shipped.
	CreateLabel(ctx context.Context, req LabelRequest) (Label, error)

	// GetTracking retrieves the tracking history for a shipped parcel.
	GetTracking(ctx context.Context, carrier, trackingNumber string) (Tracking, error)
}
