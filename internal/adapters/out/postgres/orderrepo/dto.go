// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items, the coupon snapshot, the rate quote, the address snapshot and
// the shipment are stored as jsonb documents; pricing fields are flattened
// into columns so read models can query them directly.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID `gorm:"type:uuid;index"`
	Lines           []byte    `gorm:"type:jsonb"`
	Subtotal        float64
	DiscountAmount  float64
	Coupon          []byte `gorm:"type:jsonb"`
	TaxRate         float64
	TaxAmount       float64
	TaxCountry      string
	TaxState        string
	ShippingMethod  string
	ShippingCost    float64
	RateQuote       []byte `gorm:"type:jsonb"`
	Total           float64
	PaymentMethod   string
	PaymentID       string
	PaymentStatus   string
	CardBrand       string
	CardLast4       string
	ShippingAddress []byte `gorm:"type:jsonb"`
	Shipment        []byte `gorm:"type:jsonb"`
	Status          int    `gorm:"index"`
	CreatedAt       time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

type lineDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
}

type couponDTO struct {
	Code   string  `json:"code"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

type rateQuoteDTO struct {
	RateID        string  `json:"rateId"`
	Carrier       string  `json:"carrier"`
	ServiceCode   string  `json:"serviceCode"`
	Price         float64 `json:"price"`
	EstimatedDays int     `json:"estimatedDays"`
}

type addressDTO struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// shipmentDTO field names match the tracking read model in the queries
// package, which reads the same jsonb column.
type shipmentDTO struct {
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

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	lines := make([]lineDTO, 0, len(aggregate.Lines()))
	for _, line := range aggregate.Lines() {
		lines = append(lines, lineDTO{
			ProductID: line.ProductID().Bytes(),
			Name:      line.Name(),
			UnitPrice: line.UnitPrice().Amount(),
			Quantity:  line.Quantity(),
		})
	}
	rawLines, err := json.Marshal(lines)
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:             aggregate.ID().Bytes(),
		AccountID:      aggregate.AccountID().Bytes(),
		Lines:          rawLines,
		Subtotal:       aggregate.Subtotal().Amount(),
		DiscountAmount: aggregate.DiscountAmount().Amount(),
		TaxRate:        aggregate.TaxRate(),
		TaxAmount:      aggregate.TaxAmount().Amount(),
		TaxCountry:     aggregate.TaxCountry(),
		TaxState:       aggregate.TaxState(),
		ShippingMethod: aggregate.ShippingMethod(),
		ShippingCost:   aggregate.ShippingCost().Amount(),
		Total:          aggregate.Total().Amount(),
		PaymentMethod:  aggregate.Payment().Method().String(),
		PaymentID:      aggregate.Payment().PaymentID(),
		PaymentStatus:  aggregate.Payment().Status().String(),
		CardBrand:      aggregate.Payment().CardBrand(),
		CardLast4:      aggregate.Payment().CardLast4(),
		Status:         int(aggregate.Status()),
		CreatedAt:      aggregate.CreatedAt(),
	}

	if applied := aggregate.AppliedCoupon(); applied != nil {
		dto.Coupon, err = json.Marshal(couponDTO{
			Code:   applied.Code,
			Type:   applied.Type.String(),
			Amount: applied.Amount,
		})
		if err != nil {
			return OrderDTO{}, err
		}
	}
	if quote := aggregate.RateQuote(); quote != nil {
		dto.RateQuote, err = json.Marshal(rateQuoteDTO{
			RateID:        quote.RateID,
			Carrier:       quote.Carrier,
			ServiceCode:   quote.ServiceCode,
			Price:         quote.Price.Amount(),
			EstimatedDays: quote.EstimatedDays,
		})
		if err != nil {
			return OrderDTO{}, err
		}
	}
	if address := aggregate.ShippingAddress(); address != nil {
		dto.ShippingAddress, err = json.Marshal(addressDTO{
			Name:       address.Name(),
			Street1:    address.Street1(),
			Street2:    address.Street2(),
			City:       address.City(),
			State:      address.State(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
			Phone:      address.Phone(),
		})
		if err != nil {
			return OrderDTO{}, err
		}
	}
	if shipment := aggregate.Shipment(); shipment != nil {
		dto.Shipment, err = json.Marshal(shipmentDTO{
			LabelID:           shipment.LabelID(),
			ShipmentID:        shipment.ShipmentID(),
			TrackingNumber:    shipment.TrackingNumber(),
			TrackingURL:       shipment.TrackingURL(),
			CarrierCode:       shipment.CarrierCode(),
			ServiceCode:       shipment.ServiceCode(),
			LabelURL:          shipment.LabelURL(),
			Cost:              shipment.Cost().Amount(),
			EstimatedDelivery: shipment.EstimatedDelivery(),
			ShippedAt:         shipment.ShippedAt(),
		})
		if err != nil {
			return OrderDTO{}, err
		}
	}

	return dto, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including payment and shipment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	accountID, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return nil, err
	}

	draft, err := draftFromDTO(dto)
	if err != nil {
		return nil, err
	}

	payment, err := paymentFromDTO(dto)
	if err != nil {
		return nil, err
	}

	var address *kernel.Address
	if len(dto.ShippingAddress) > 0 {
		var a addressDTO
		if err = json.Unmarshal(dto.ShippingAddress, &a); err != nil {
			return nil, err
		}
		restored, addrErr := kernel.NewAddress(
			a.Name, a.Street1, a.Street2, a.City, a.State, a.PostalCode, a.Country, a.Phone,
		)
		if addrErr != nil {
			return nil, addrErr
		}
		address = &restored
	}

	var shipment *order.Shipment
	if len(dto.Shipment) > 0 {
		var s shipmentDTO
		if err = json.Unmarshal(dto.Shipment, &s); err != nil {
			return nil, err
		}
		cost, costErr := kernel.NewMoney(s.Cost)
		if costErr != nil {
			return nil, costErr
		}
		restored, shipErr := order.NewShipment(
			s.LabelID, s.ShipmentID, s.TrackingNumber, s.TrackingURL,
			s.CarrierCode, s.ServiceCode, s.LabelURL,
			cost, s.EstimatedDelivery, s.ShippedAt,
		)
		if shipErr != nil {
			return nil, shipErr
		}
		shipment = &restored
	}

	return order.RestoreOrder(
		id, accountID, draft, payment,
		order.Status(dto.Status), address, shipment, dto.CreatedAt,
	)
}

func draftFromDTO(dto OrderDTO) (order.Draft, error) {
	var rawLines []lineDTO
	if err := json.Unmarshal(dto.Lines, &rawLines); err != nil {
		return order.Draft{}, err
	}

	lines := make([]order.LineItem, 0, len(rawLines))
	for _, raw := range rawLines {
		productID, err := kernel.UUIDFromBytes(raw.ProductID[:])
		if err != nil {
			return order.Draft{}, err
		}
		unitPrice, err := kernel.NewMoney(raw.UnitPrice)
		if err != nil {
			return order.Draft{}, err
		}
		line, err := order.NewLineItem(productID, raw.Name, unitPrice, raw.Quantity)
		if err != nil {
			return order.Draft{}, err
		}
		lines = append(lines, line)
	}

	var applied *order.AppliedCoupon
	if len(dto.Coupon) > 0 {
		var c couponDTO
		if err := json.Unmarshal(dto.Coupon, &c); err != nil {
			return order.Draft{}, err
		}
		couponType, err := coupon.TypeFromString(c.Type)
		if err != nil {
			return order.Draft{}, err
		}
		applied = &order.AppliedCoupon{Code: c.Code, Type: couponType, Amount: c.Amount}
	}

	var quote *order.RateQuote
	if len(dto.RateQuote) > 0 {
		var q rateQuoteDTO
		if err := json.Unmarshal(dto.RateQuote, &q); err != nil {
			return order.Draft{}, err
		}
		price, err := kernel.NewMoney(q.Price)
		if err != nil {
			return order.Draft{}, err
		}
		quote = &order.RateQuote{
			RateID:        q.RateID,
			Carrier:       q.Carrier,
			ServiceCode:   q.ServiceCode,
			Price:         price,
			EstimatedDays: q.EstimatedDays,
		}
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return order.Draft{}, err
	}
	discount, err := kernel.NewMoney(dto.DiscountAmount)
	if err != nil {
		return order.Draft{}, err
	}
	taxAmount, err := kernel.NewMoney(dto.TaxAmount)
	if err != nil {
		return order.Draft{}, err
	}
	shippingCost, err := kernel.NewMoney(dto.ShippingCost)
	if err != nil {
		return order.Draft{}, err
	}

	return order.NewDraft(
		lines, subtotal, discount, applied,
		dto.TaxRate, taxAmount, dto.TaxCountry, dto.TaxState,
		dto.ShippingMethod, shippingCost, quote,
	)
}

func paymentFromDTO(dto OrderDTO) (order.Payment, error) {
	method, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return order.Payment{}, err
	}
	if method == order.MethodNone {
		return order.NewUnpaidPayment(), nil
	}

	status, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return order.Payment{}, err
	}

	return order.NewPayment(method, dto.PaymentID, status, dto.CardBrand, dto.CardLast4)
}
