package commands

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

var (
	ErrCheckoutCommandIsNotConstructed = errors.New(
		"CheckoutCommand must be created via NewCheckoutCommand constructor",
	)
	ErrLinesAreRequired    = errors.New("at least one product line is required")
	ErrQuantityIsInvalid   = errors.New("quantity must be greater than 0")
	ErrPaymentIDIsRequired = errors.New("paymentId is required for the chosen payment method")
	ErrAddressIsAmbiguous  = errors.New("shippingAddressId and shippingAddress are mutually exclusive")
)

// CheckoutLine is one requested product/quantity pair from the client.
type CheckoutLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// CheckoutCommand represents a request to place an order: the cart lines plus
// the optional coupon, shipping and payment details.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCheckoutCommand(orderID, accountID, lines, "SAVE10",
//	    "standard", nil, nil, address, order.MethodStripe, "pi_123")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//
//	placed, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
//	fmt.Printf("Order %s placed with status %s", placed.ID(), placed.Status())
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	accountID       kernel.UUID
	lines           []CheckoutLine
	couponCode        string
	shippingMethod    string
	rateQuote         *order.RateQuote
	shippingAddressID *kernel.UUID
	shippingAddress   *kernel.Address
	paymentMethod     order.PaymentMethod
	paymentID         string

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a command to place an order.
// Validates IDs, lines and quantities, and that a payment id accompanies any
// real payment method. The destination is given either as a saved address id
// or an inline address, never both. Returns an error if any validation fails.
func NewCheckoutCommand(
	orderID, accountID kernel.UUID,
	lines []CheckoutLine,
	couponCode, shippingMethod string,
	rateQuote *order.RateQuote,
	shippingAddressID *kernel.UUID,
	shippingAddress *kernel.Address,
	paymentMethod order.PaymentMethod,
	paymentID string,
) (CheckoutCommand, error) {
	checkoutCommand := CheckoutCommand{
		couponCode:     couponCode,
		shippingMethod: shippingMethod,
		rateQuote:      rateQuote,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		checkoutCommand.setOrderID(orderID),
		checkoutCommand.setAccountID(accountID),
		checkoutCommand.setLines(lines),
		checkoutCommand.setShippingDestination(shippingAddressID, shippingAddress),
		checkoutCommand.setPayment(paymentMethod, paymentID),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return checkoutCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCheckoutCommandIsNotConstructed if validation fails.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the order being placed.
func (c CheckoutCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AccountID returns the buyer's account identifier.
func (c CheckoutCommand) AccountID() kernel.UUID {
	return c.accountID
}

// Lines returns the requested product/quantity pairs.
func (c CheckoutCommand) Lines() []CheckoutLine {
	return c.lines
}

// CouponCode returns the submitted coupon code, empty if none.
func (c CheckoutCommand) CouponCode() string {
	return c.couponCode
}

// ShippingMethod returns the chosen shipping method, empty if none.
func (c CheckoutCommand) ShippingMethod() string {
	return c.shippingMethod
}

// RateQuote returns the pre-fetched carrier quote, nil if none.
func (c CheckoutCommand) RateQuote() *order.RateQuote {
	return c.rateQuote
}

// ShippingAddressID returns the buyer's saved address to ship to, nil if the
// destination was given inline or not at all.
func (c CheckoutCommand) ShippingAddressID() *kernel.UUID {
	return c.shippingAddressID
}

// ShippingAddress returns the inline destination address, nil if none.
func (c CheckoutCommand) ShippingAddress() *kernel.Address {
	return c.shippingAddress
}

// PaymentMethod returns the claimed payment method.
func (c CheckoutCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// PaymentID returns the provider-side payment identifier, empty for
// method none.
func (c CheckoutCommand) PaymentID() string {
	return c.paymentID
}

func (c *CheckoutCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CheckoutCommand) setAccountID(accountID kernel.UUID) error {
	if err := accountID.Validate(); err != nil {
		return err
	}

	c.accountID = accountID
	return nil
}

func (c *CheckoutCommand) setLines(lines []CheckoutLine) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("productId", err)
		}
		if line.Quantity <= 0 {
			return ErrQuantityIsInvalid
		}
	}

	c.lines = lines
	return nil
}

func (c *CheckoutCommand) setShippingDestination(addressID *kernel.UUID, address *kernel.Address) error {
	if addressID != nil && address != nil {
		return ErrAddressIsAmbiguous
	}
	if addressID != nil {
		if err := addressID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("shippingAddressId", err)
		}
	}

	c.shippingAddressID = addressID
	c.shippingAddress = address
	return nil
}

func (c *CheckoutCommand) setPayment(method order.PaymentMethod, paymentID string) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if method != order.MethodNone && paymentID == "" {
		return ErrPaymentIDIsRequired
	}

	c.paymentMethod = method
	c.paymentID = paymentID
	return nil
}
