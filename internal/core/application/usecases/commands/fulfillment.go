package commands

import (
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/ports"
)

// Package weight is estimated from item count; the carrier rejects
// zero-weight parcels so a floor applies.
const (
	weightOuncesPerItem = 8.0
	minWeightOunces     = 8.0
)

const defaultCarrier = "usps"

// Shipping method to carrier service code. Unknown methods ship ground.
var serviceCodes = map[string]string{
	"standard":  "usps_ground_advantage",
	"express":   "usps_priority",
	"overnight": "usps_priority_mail_express",
}

const defaultServiceCode = "usps_ground_advantage"

// labelRequestFor builds the carrier label request for an order.
// A stored rate quote pins the carrier and service; otherwise the shipping
// method picks the service code. Orders without a shipping address snapshot
// fall back to a placeholder so legacy orders can still be labeled.
func labelRequestFor(o *order.Order, from kernel.Address) (ports.LabelRequest, error) {
	to := o.ShippingAddress()
	if to == nil {
		placeholder, err := kernel.NewAddress(
			"Customer", "Address on file", "", "Unknown", "", "", "US", "",
		)
		if err != nil {
			return ports.LabelRequest{}, err
		}
		to = &placeholder
	}

	carrier := defaultCarrier
	serviceCode, ok := serviceCodes[o.ShippingMethod()]
	if !ok {
		serviceCode = defaultServiceCode
	}
	if quote := o.RateQuote(); quote != nil {
		if quote.Carrier != "" {
			carrier = quote.Carrier
		}
		if quote.ServiceCode != "" {
			serviceCode = quote.ServiceCode
		}
	}

	return ports.LabelRequest{
		OrderID:     o.ID(),
		ToAddress:   *to,
		FromAddress: from,
		Parcel:      ports.Parcel{WeightOunces: estimateWeightOunces(o.Lines())},
		Carrier:     carrier,
		ServiceCode: serviceCode,
	}, nil
}

func estimateWeightOunces(lines []order.LineItem) float64 {
	items := 0
	for _, line := range lines {
		items += line.Quantity()
	}
	weight := weightOuncesPerItem * float64(items)
	if weight < minWeightOunces {
		weight = minWeightOunces
	}
	return weight
}
