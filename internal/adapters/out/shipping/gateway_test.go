package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

func testAddress(t *testing.T, city string) kernel.Address {
	t.Helper()

	address, err := kernel.NewAddress("Jamie Doe", "500 Grand Ave", "", city, "CA", "94610", "US", "")
	require.NoError(t, err)
	return address
}

func TestGetRates(t *testing.T) {
	var captured map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rates", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rates": []map[string]any{
				{"id": "rate_1", "carrier": "usps", "service_code": "usps_ground_advantage", "rate": 5.45, "estimated_days": 3},
				{"id": "rate_2", "carrier": "usps", "service_code": "usps_priority", "rate": 9.90, "estimated_days": 2},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(server.URL, "key-1")
	require.NoError(t, err)

	quotes, err := gateway.GetRates(context.Background(), ports.RateRequest{
		ToAddress:   testAddress(t, "Oakland"),
		FromAddress: testAddress(t, "Reno"),
		Parcel:      ports.Parcel{WeightOunces: 16},
	})
	require.NoError(t, err)

	require.Len(t, quotes, 2)
	assert.Equal(t, "rate_1", quotes[0].RateID)
	assert.Equal(t, "usps_ground_advantage", quotes[0].ServiceCode)
	assert.InDelta(t, 5.45, quotes[0].Price.Amount(), 0.001)
	assert.Equal(t, 3, quotes[0].EstimatedDays)

	toAddress, ok := captured["to_address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Oakland", toAddress["city"])
	parcel, ok := captured["parcel"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 16.0, parcel["weight_ounces"], 0.001)
}

func TestCreateLabel(t *testing.T) {
	eta := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /labels", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "usps", payload["carrier"])
		assert.Equal(t, "usps_priority", payload["service_code"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"label_id":           "lbl_1",
			"shipment_id":        "shp_1",
			"tracking_number":    "9400100000000000000001",
			"tracking_url":       "https://tools.usps.com/go/track?9400100000000000000001",
			"carrier":            "usps",
			"service_code":       "usps_priority",
			"label_url":          "https://labels.example.com/lbl_1.pdf",
			"cost":               9.90,
			"estimated_delivery": eta,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(server.URL, "key-1")
	require.NoError(t, err)

	label, err := gateway.CreateLabel(context.Background(), ports.LabelRequest{
		OrderID:     kernel.NewUUID(),
		ToAddress:   testAddress(t, "Oakland"),
		FromAddress: testAddress(t, "Reno"),
		Parcel:      ports.Parcel{WeightOunces: 16},
		Carrier:     "usps",
		ServiceCode: "usps_priority",
	})
	require.NoError(t, err)

	assert.Equal(t, "lbl_1", label.LabelID)
	assert.Equal(t, "9400100000000000000001", label.TrackingNumber)
	assert.InDelta(t, 9.90, label.Cost, 0.001)
	require.NotNil(t, label.EstimatedDelivery)
	assert.True(t, label.EstimatedDelivery.Equal(eta))
}

func TestCreateLabel_ProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /labels", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(server.URL, "key-1")
	require.NoError(t, err)

	_, err = gateway.CreateLabel(context.Background(), ports.LabelRequest{
		OrderID:     kernel.NewUUID(),
		ToAddress:   testAddress(t, "Oakland"),
		FromAddress: testAddress(t, "Reno"),
		Parcel:      ports.Parcel{WeightOunces: 16},
		Carrier:     "usps",
		ServiceCode: "usps_priority",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestGetTracking(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tracking/{carrier}/{number}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "usps", r.PathValue("carrier"))
		assert.Equal(t, "9400100000000000000001", r.PathValue("number"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":        "in_transit",
			"status_detail": "Departed facility",
			"events": []map[string]any{
				{"timestamp": time.Now().UTC(), "location": "Oakland, CA", "description": "Departed facility"},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(server.URL, "key-1")
	require.NoError(t, err)

	tracking, err := gateway.GetTracking(context.Background(), "usps", "9400100000000000000001")
	require.NoError(t, err)

	assert.Equal(t, "in_transit", tracking.Status)
	require.Len(t, tracking.Events, 1)
	assert.Equal(t, "Oakland, CA", tracking.Events[0].Location)
}

func TestGetTracking_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tracking/{carrier}/{number}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(server.URL, "key-1")
	require.NoError(t, err)

	_, err = gateway.GetTracking(context.Background(), "usps", "missing")
	require.Error(t, err)

	var notFound *errs.ObjectNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
