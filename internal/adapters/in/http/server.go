package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/application/usecases/queries"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/services"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

// Server handles the HTTP API for the checkout pipeline.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	checkoutHandler          commands.CheckoutCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderTrackingHandler queries.GetOrderTrackingQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	checkoutHandler commands.CheckoutCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderTrackingHandler queries.GetOrderTrackingQueryHandler,
) *Server {
	return &Server{
		checkoutHandler:          checkoutHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderTrackingHandler:  getOrderTrackingHandler,
	}
}

// RegisterRoutes attaches the API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", s.Checkout)
	e.PATCH("/orders/:id", s.UpdateOrderStatus)
	e.GET("/orders/:id/tracking", s.GetOrderTracking)
}

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CheckoutLine is one product/quantity pair in a checkout request.
type CheckoutLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddressPayload is a postal address in requests and responses.
type AddressPayload struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// RateQuotePayload is a pre-fetched carrier rate quote attached to a checkout
// request. Its price is trusted verbatim as the shipping cost.
type RateQuotePayload struct {
	RateID        string  `json:"rateId"`
	Carrier       string  `json:"carrier"`
	ServiceCode   string  `json:"serviceCode"`
	Price         float64 `json:"price"`
	EstimatedDays int     `json:"estimatedDays"`
}

// CheckoutRequest is the body of POST /orders. The destination ships either
// to a saved address referenced by shippingAddressId or to an inline
// shippingAddress.
type CheckoutRequest struct {
	AccountID         string            `json:"accountId"`
	Products          []CheckoutLine    `json:"products"`
	CouponCode        string            `json:"couponCode,omitempty"`
	ShippingMethod    string            `json:"shippingMethod,omitempty"`
	ShippingRate      *RateQuotePayload `json:"shippingRate,omitempty"`
	ShippingAddressID string            `json:"shippingAddressId,omitempty"`
	ShippingAddress   *AddressPayload   `json:"shippingAddress,omitempty"`
	PaymentMethod     string            `json:"paymentMethod"`
	PaymentID         string            `json:"paymentId,omitempty"`
}

// UpdateOrderStatusRequest is the body of PATCH /orders/:id.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderLine is one priced line item in an order response.
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// AppliedCoupon is the redeemed coupon snapshot in an order response.
type AppliedCoupon struct {
	Code   string  `json:"code"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// PaymentInfo is the verified payment snapshot in an order response.
type PaymentInfo struct {
	Method    string `json:"method"`
	PaymentID string `json:"paymentId,omitempty"`
	Status    string `json:"status"`
	CardBrand string `json:"cardBrand,omitempty"`
	CardLast4 string `json:"cardLast4,omitempty"`
}

// ShipmentInfo is the recorded shipment in an order or tracking response.
type ShipmentInfo struct {
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

// Order is the full order representation returned by the write endpoints.
type Order struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Lines           []OrderLine     `json:"lines"`
	Subtotal        float64         `json:"subtotal"`
	DiscountAmount  float64         `json:"discountAmount"`
	AppliedCoupon   *AppliedCoupon  `json:"appliedCoupon,omitempty"`
	TaxRate         float64         `json:"taxRate"`
	TaxAmount       float64         `json:"taxAmount"`
	ShippingMethod  string          `json:"shippingMethod,omitempty"`
	ShippingCost    float64         `json:"shippingCost"`
	Total           float64         `json:"total"`
	Status          string          `json:"status"`
	Payment         PaymentInfo     `json:"payment"`
	ShippingAddress *AddressPayload `json:"shippingAddress,omitempty"`
	Shipment        *ShipmentInfo   `json:"shipment,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// TrackingEvent is one carrier scan in a tracking response.
type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
}

// TrackingInfo is the carrier's live view of a shipment.
type TrackingInfo struct {
	Status            string          `json:"status"`
	StatusDetail      string          `json:"statusDetail,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty"`
	Events            []TrackingEvent `json:"events"`
}

// TrackingResponse is the body of GET /orders/:id/tracking.
type TrackingResponse struct {
	HasTracking bool          `json:"hasTracking"`
	Shipment    *ShipmentInfo `json:"shipment,omitempty"`
	Tracking    *TrackingInfo `json:"tracking,omitempty"`
}

// Checkout handles POST /orders - places a new order.
func (s *Server) Checkout(ctx echo.Context) error {
	var req CheckoutRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := s.buildCheckoutCommand(req)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid checkout data: " + err.Error(),
		})
	}

	placed, err := s.checkoutHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.checkoutError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(placed))
}

// UpdateOrderStatus handles PATCH /orders/:id - moves an order through its
// status lifecycle. A transition to shipped purchases a shipping label first.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var req UpdateOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status: " + req.Status,
		})
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status update: " + err.Error(),
		})
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.updateStatusError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// GetOrderTracking handles GET /orders/:id/tracking - returns the stored
// shipment together with the carrier's live tracking history.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid tracking query: " + err.Error(),
		})
	}

	result, err := s.getOrderTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		var notFound *errs.ObjectNotFoundError
		if errors.As(err, &notFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve tracking",
		})
	}

	return ctx.JSON(http.StatusOK, toTrackingResponse(result))
}

func (s *Server) buildCheckoutCommand(req CheckoutRequest) (commands.CheckoutCommand, error) {
	accountID, err := kernel.UUIDFromString(req.AccountID)
	if err != nil {
		return commands.CheckoutCommand{}, errs.NewValueIsInvalidErrorWithCause("accountId", err)
	}

	lines := make([]commands.CheckoutLine, 0, len(req.Products))
	for _, line := range req.Products {
		productID, lineErr := kernel.UUIDFromString(line.ProductID)
		if lineErr != nil {
			return commands.CheckoutCommand{}, errs.NewValueIsInvalidErrorWithCause("productId", lineErr)
		}
		lines = append(lines, commands.CheckoutLine{ProductID: productID, Quantity: line.Quantity})
	}

	method, err := order.PaymentMethodFromString(req.PaymentMethod)
	if err != nil {
		return commands.CheckoutCommand{}, err
	}

	var addressID *kernel.UUID
	if req.ShippingAddressID != "" {
		parsed, idErr := kernel.UUIDFromString(req.ShippingAddressID)
		if idErr != nil {
			return commands.CheckoutCommand{}, errs.NewValueIsInvalidErrorWithCause("shippingAddressId", idErr)
		}
		addressID = &parsed
	}

	var address *kernel.Address
	if req.ShippingAddress != nil {
		parsed, addrErr := kernel.NewAddress(
			req.ShippingAddress.Name,
			req.ShippingAddress.Street1,
			req.ShippingAddress.Street2,
			req.ShippingAddress.City,
			req.ShippingAddress.State,
			req.ShippingAddress.PostalCode,
			req.ShippingAddress.Country,
			req.ShippingAddress.Phone,
		)
		if addrErr != nil {
			return commands.CheckoutCommand{}, addrErr
		}
		address = &parsed
	}

	var quote *order.RateQuote
	if req.ShippingRate != nil {
		price, priceErr := kernel.NewMoney(req.ShippingRate.Price)
		if priceErr != nil {
			return commands.CheckoutCommand{}, errs.NewValueIsInvalidErrorWithCause("shippingRate.price", priceErr)
		}
		quote = &order.RateQuote{
			RateID:        req.ShippingRate.RateID,
			Carrier:       req.ShippingRate.Carrier,
			ServiceCode:   req.ShippingRate.ServiceCode,
			Price:         price,
			EstimatedDays: req.ShippingRate.EstimatedDays,
		}
	}

	return commands.NewCheckoutCommand(
		kernel.NewUUID(),
		accountID,
		lines,
		req.CouponCode,
		req.ShippingMethod,
		quote,
		addressID,
		address,
		method,
		req.PaymentID,
	)
}

func (s *Server) checkoutError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError

	switch {
	case errors.Is(err, ports.ErrInsufficientStock):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrPaymentVerificationFailed):
		return ctx.JSON(http.StatusPaymentRequired, Error{
			Code:    http.StatusPaymentRequired,
			Message: err.Error(),
		})
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrCouponInvalid),
		errors.Is(err, services.ErrCouponNotApplicable),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to place order",
		})
	}
}

func (s *Server) updateStatusError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	var invalid *errs.ValueIsInvalidError

	switch {
	case errors.Is(err, commands.ErrLabelIssuanceFailed):
		return ctx.JSON(http.StatusBadGateway, Error{
			Code:    http.StatusBadGateway,
			Message: err.Error(),
		})
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.As(err, &invalid):
		// The status string parsed fine, so an invalid-value error here
		// means the transition itself is not allowed.
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to update order status",
		})
	}
}

func toOrderResponse(o *order.Order) Order {
	lines := make([]OrderLine, len(o.Lines()))
	for i, li := range o.Lines() {
		lines[i] = OrderLine{
			ProductID: li.ProductID().String(),
			Name:      li.Name(),
			UnitPrice: li.UnitPrice().Amount(),
			Quantity:  li.Quantity(),
			Total:     li.Total().Amount(),
		}
	}

	response := Order{
		ID:             o.ID().String(),
		AccountID:      o.AccountID().String(),
		Lines:          lines,
		Subtotal:       o.Subtotal().Amount(),
		DiscountAmount: o.DiscountAmount().Amount(),
		TaxRate:        o.TaxRate(),
		TaxAmount:      o.TaxAmount().Amount(),
		ShippingMethod: o.ShippingMethod(),
		ShippingCost:   o.ShippingCost().Amount(),
		Total:          o.Total().Amount(),
		Status:         o.Status().String(),
		Payment: PaymentInfo{
			Method:    o.Payment().Method().String(),
			PaymentID: o.Payment().PaymentID(),
			Status:    o.Payment().Status().String(),
			CardBrand: o.Payment().CardBrand(),
			CardLast4: o.Payment().CardLast4(),
		},
		CreatedAt: o.CreatedAt(),
	}

	if applied := o.AppliedCoupon(); applied != nil {
		response.AppliedCoupon = &AppliedCoupon{
			Code:   applied.Code,
			Type:   applied.Type.String(),
			Amount: applied.Amount,
		}
	}

	if address := o.ShippingAddress(); address != nil {
		response.ShippingAddress = &AddressPayload{
			Name:       address.Name(),
			Street1:    address.Street1(),
			Street2:    address.Street2(),
			City:       address.City(),
			State:      address.State(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
			Phone:      address.Phone(),
		}
	}

	if shipment := o.Shipment(); shipment != nil {
		response.Shipment = &ShipmentInfo{
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
		}
	}

	return response
}

func toTrackingResponse(result queries.GetOrderTrackingQueryResponse) TrackingResponse {
	response := TrackingResponse{HasTracking: result.HasTracking}

	if result.Shipment != nil {
		response.Shipment = &ShipmentInfo{
			LabelID:           result.Shipment.LabelID,
			ShipmentID:        result.Shipment.ShipmentID,
			TrackingNumber:    result.Shipment.TrackingNumber,
			TrackingURL:       result.Shipment.TrackingURL,
			CarrierCode:       result.Shipment.CarrierCode,
			ServiceCode:       result.Shipment.ServiceCode,
			LabelURL:          result.Shipment.LabelURL,
			Cost:              result.Shipment.Cost,
			EstimatedDelivery: result.Shipment.EstimatedDelivery,
			ShippedAt:         result.Shipment.ShippedAt,
		}
	}

	if result.Tracking != nil {
		events := make([]TrackingEvent, len(result.Tracking.Events))
		for i, event := range result.Tracking.Events {
			events[i] = TrackingEvent{
				Timestamp:   event.Timestamp,
				Location:    event.Location,
				Description: event.Description,
			}
		}
		response.Tracking = &TrackingInfo{
			Status:            result.Tracking.Status,
			StatusDetail:      result.Tracking.StatusDetail,
			EstimatedDelivery: result.Tracking.EstimatedDelivery,
			Events:            events,
		}
	}

	return response
}
