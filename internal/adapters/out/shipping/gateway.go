// Package shipping implements the carrier gateway over an EasyPost-style
// shipping REST API: rate quotes, label purchase, and tracking lookups.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

var _ ports.CarrierGateway = (*Gateway)(nil)

// Gateway calls the shipping provider REST API with API-key authentication.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGateway creates a shipping gateway.
func NewGateway(baseURL, apiKey string) (*Gateway, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type addressPayload struct {
	Name       string `json:"name,omitempty"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type parcelPayload struct {
	WeightOunces float64 `json:"weight_ounces"`
}

func addressPayloadFrom(a kernel.Address) addressPayload {
	return addressPayload{
		Name:       a.Name(),
		Street1:    a.Street1(),
		Street2:    a.Street2(),
		City:       a.City(),
		State:      a.State(),
		PostalCode: a.PostalCode(),
		Country:    a.Country(),
		Phone:      a.Phone(),
	}
}

// GetRates retrieves rate quotes for a shipment.
func (g *Gateway) GetRates(ctx context.Context, rateReq ports.RateRequest) ([]order.RateQuote, error) {
	payload := struct {
		ToAddress   addressPayload `json:"to_address"`
		FromAddress addressPayload `json:"from_address"`
		Parcel      parcelPayload  `json:"parcel"`
	}{
		ToAddress:   addressPayloadFrom(rateReq.ToAddress),
		FromAddress: addressPayloadFrom(rateReq.FromAddress),
		Parcel:      parcelPayload{WeightOunces: rateReq.Parcel.WeightOunces},
	}

	var body struct {
		Rates []struct {
			ID            string  `json:"id"`
			Carrier       string  `json:"carrier"`
			ServiceCode   string  `json:"service_code"`
			Rate          float64 `json:"rate"`
			EstimatedDays int     `json:"estimated_days"`
		} `json:"rates"`
	}
	if err := g.post(ctx, "/rates", payload, &body); err != nil {
		return nil, fmt.Errorf("shipping get rates: %w", err)
	}

	quotes := make([]order.RateQuote, 0, len(body.Rates))
	for _, rate := range body.Rates {
		price, err := kernel.NewMoney(rate.Rate)
		if err != nil {
			return nil, fmt.Errorf("shipping get rates: rate %q: %w", rate.ID, err)
		}
		quotes = append(quotes, order.RateQuote{
			RateID:        rate.ID,
			Carrier:       rate.Carrier,
			ServiceCode:   rate.ServiceCode,
			Price:         price,
			EstimatedDays: rate.EstimatedDays,
		})
	}
	return quotes, nil
}

// CreateLabel purchases a shipping label for an order.
func (g *Gateway) CreateLabel(ctx context.Context, labelReq ports.LabelRequest) (ports.Label, error) {
	payload := struct {
		OrderID     string         `json:"order_id"`
		ToAddress   addressPayload `json:"to_address"`
		FromAddress addressPayload `json:"from_address"`
		Parcel      parcelPayload  `json:"parcel"`
		Carrier     string         `json:"carrier"`
		ServiceCode string         `json:"service_code"`
	}{
		OrderID:     labelReq.OrderID.String(),
		ToAddress:   addressPayloadFrom(labelReq.ToAddress),
		FromAddress: addressPayloadFrom(labelReq.FromAddress),
		Parcel:      parcelPayload{WeightOunces: labelReq.Parcel.WeightOunces},
		Carrier:     labelReq.Carrier,
		ServiceCode: labelReq.ServiceCode,
	}

	var body struct {
		LabelID           string     `json:"label_id"`
		ShipmentID        string     `json:"shipment_id"`
		TrackingNumber    string     `json:"tracking_number"`
		TrackingURL       string     `json:"tracking_url"`
		Carrier           string     `json:"carrier"`
		ServiceCode       string     `json:"service_code"`
		LabelURL          string     `json:"label_url"`
		Cost              float64    `json:"cost"`
		EstimatedDelivery *time.Time `json:"estimated_delivery"`
	}
	if err := g.post(ctx, "/labels", payload, &body); err != nil {
		return ports.Label{}, fmt.Errorf("shipping create label: %w", err)
	}

	return ports.Label{
		LabelID:           body.LabelID,
		ShipmentID:        body.ShipmentID,
		TrackingNumber:    body.TrackingNumber,
		TrackingURL:       body.TrackingURL,
		Carrier:           body.Carrier,
		ServiceCode:       body.ServiceCode,
		LabelURL:          body.LabelURL,
		Cost:              body.Cost,
		EstimatedDelivery: body.EstimatedDelivery,
	}, nil
}

// GetTracking retrieves the tracking history for a shipped parcel.
func (g *Gateway) GetTracking(ctx context.Context, carrier, trackingNumber string) (ports.Tracking, error) {
	endpoint := fmt.Sprintf("%s/tracking/%s/%s",
		g.baseURL, url.PathEscape(carrier), url.PathEscape(trackingNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.Tracking{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.Tracking{}, fmt.Errorf("shipping get tracking: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.Tracking{}, errs.NewObjectNotFoundError("tracking", trackingNumber)
	}
	if resp.StatusCode != http.StatusOK {
		return ports.Tracking{}, fmt.Errorf("shipping get tracking: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Status            string     `json:"status"`
		StatusDetail      string     `json:"status_detail"`
		EstimatedDelivery *time.Time `json:"estimated_delivery"`
		Events            []struct {
			Timestamp   time.Time `json:"timestamp"`
			Location    string    `json:"location"`
			Description string    `json:"description"`
		} `json:"events"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.Tracking{}, fmt.Errorf("shipping get tracking: decode: %w", err)
	}

	tracking := ports.Tracking{
		Status:            body.Status,
		StatusDetail:      body.StatusDetail,
		EstimatedDelivery: body.EstimatedDelivery,
	}
	for _, event := range body.Events {
		tracking.Events = append(tracking.Events, ports.TrackingEvent{
			Timestamp:   event.Timestamp,
			Location:    event.Location,
			Description: event.Description,
		})
	}
	return tracking, nil
}

func (g *Gateway) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
