package order

import (
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

// ErrShipmentIsNotConstructed is returned when validating a Shipment that was
// not created via NewShipment.
var ErrShipmentIsNotConstructed = errs.NewValueIsRequiredError("Shipment must be created via NewShipment")

// Shipment is the carrier-issued shipment record attached to an order when it
// ships. It is written exactly once, at the first transition into the shipped
// status, and is immutable afterwards.
type Shipment struct {
	labelID           string
	shipmentID        string
	trackingNumber    string
	trackingURL       string
	carrierCode       string
	serviceCode       string
	labelURL          string
	cost              kernel.Money
	estimatedDelivery *time.Time
	shippedAt         time.Time

	guard guard.ConstructorGuard
}

// NewShipment creates a Shipment from a carrier label response.
// The label id, tracking number, and carrier code are required.
func NewShipment(
	labelID, shipmentID, trackingNumber, trackingURL string,
	carrierCode, serviceCode, labelURL string,
	cost kernel.Money,
	estimatedDelivery *time.Time,
	shippedAt time.Time,
) (Shipment, error) {
	if labelID == "" {
		return Shipment{}, errs.NewValueIsRequiredError("labelId")
	}
	if trackingNumber == "" {
		return Shipment{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	if carrierCode == "" {
		return Shipment{}, errs.NewValueIsRequiredError("carrierCode")
	}

	return Shipment{
		labelID:           labelID,
		shipmentID:        shipmentID,
		trackingNumber:    trackingNumber,
		trackingURL:       trackingURL,
		carrierCode:       carrierCode,
		serviceCode:       serviceCode,
		labelURL:          labelURL,
		cost:              cost,
		estimatedDelivery: estimatedDelivery,
		shippedAt:         shippedAt,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Shipment was created via NewShipment.
func (s Shipment) Validate() error {
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

// LabelID returns the carrier label identifier.
func (s Shipment) LabelID() string { return s.labelID }

// ShipmentID returns the carrier shipment identifier.
func (s Shipment) ShipmentID() string { return s.shipmentID }

// TrackingNumber returns the carrier tracking number.
func (s Shipment) TrackingNumber() string { return s.trackingNumber }

// TrackingURL returns the customer-facing tracking page URL.
func (s Shipment) TrackingURL() string { return s.trackingURL }

// CarrierCode returns the carrier identifier used for tracking lookups.
func (s Shipment) CarrierCode() string { return s.carrierCode }

// ServiceCode returns the carrier service the label was bought for.
func (s Shipment) ServiceCode() string { return s.serviceCode }

// LabelURL returns the printable label URL.
func (s Shipment) LabelURL() string { return s.labelURL }

// Cost returns what the label cost the merchant.
func (s Shipment) Cost() kernel.Money { return s.cost }

// EstimatedDelivery returns the carrier's delivery estimate, if any.
func (s Shipment) EstimatedDelivery() *time.Time { return s.estimatedDelivery }

// ShippedAt returns when the order entered the shipped status.
func (s Shipment) ShippedAt() time.Time { return s.shippedAt }
