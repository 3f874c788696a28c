package commands

import (
	"context"
	"time"

	"checkout/internal/core/domain/model/account"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/product"
	"checkout/internal/core/domain/services"
	"checkout/internal/core/ports"
)

// CheckoutCommandHandler runs the checkout pipeline: price the cart, place an
// expiring inventory hold, verify the payment, then persist the order and its
// side effects atomically.
//
// Pipeline ordering: the hold is placed before payment verification so the
// last unit cannot be sold twice while a buyer completes payment. The hold is
// bounded: payment or persistence failure releases it immediately, and the
// reservation sweeper reclaims holds whose deadline passes.
//
// Example:
//
//	handler := NewCheckoutCommandHandler(uowFactory, catalog, accounts,
//	    pricing, inventory, verifier, 15*time.Minute, staffEmails)
//	placed, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ports.ErrInsufficientStock) {
//	    // A product sold out mid-checkout; nothing was persisted
//	    return
//	}
type CheckoutCommandHandler struct {
	uowFactory  CheckoutUoWFactory
	catalog     ports.Catalog
	accounts    ports.AccountRepository
	pricing     *services.PricingService
	inventory   ports.InventoryStore
	verifier    PaymentVerifier
	holdTTL     time.Duration
	staffEmails []string
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
// staffEmails may be empty, in which case no staff alert is queued.
func NewCheckoutCommandHandler(
	uowFactory CheckoutUoWFactory,
	catalog ports.Catalog,
	accounts ports.AccountRepository,
	pricing *services.PricingService,
	inventory ports.InventoryStore,
	verifier PaymentVerifier,
	holdTTL time.Duration,
	staffEmails []string,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory:  uowFactory,
		catalog:     catalog,
		accounts:    accounts,
		pricing:     pricing,
		inventory:   inventory,
		verifier:    verifier,
		holdTTL:     holdTTL,
		staffEmails: staffEmails,
	}
}

// Handle processes the checkout command and returns the placed order.
// Any failure before the final commit leaves no persisted order and no
// surviving stock decrement.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()

	buyer, err := h.accounts.Get(ctx, cmd.AccountID())
	if err != nil {
		return nil, err
	}

	products, err := h.catalog.GetProducts(ctx, productIDsOf(cmd.Lines()))
	if err != nil {
		return nil, err
	}

	shippingAddress, err := resolveShippingAddress(cmd, buyer)
	if err != nil {
		return nil, err
	}

	taxCountry, taxState := taxDestination(shippingAddress, buyer)
	draft, err := h.priceCart(ctx, cmd, products, taxCountry, taxState, now)
	if err != nil {
		return nil, err
	}

	token, err := h.inventory.Reserve(ctx, reservationLines(draft, products), h.holdTTL)
	if err != nil {
		return nil, err
	}

	payment, err := h.verifier.Verify(ctx, cmd.PaymentMethod(), cmd.PaymentID(), draft.Total())
	if err != nil {
		_ = h.inventory.Release(ctx, token)
		return nil, err
	}

	placed, err := order.NewOrder(cmd.OrderID(), cmd.AccountID(), draft, payment, shippingAddress, now)
	if err != nil {
		_ = h.inventory.Release(ctx, token)
		return nil, err
	}

	if err = h.persist(ctx, placed, now); err != nil {
		_ = h.inventory.Release(ctx, token)
		return nil, err
	}

	// The decrements are already in place; committing only drops the hold
	// record. If this fails the sweeper releases the hold at its deadline.
	_ = h.inventory.Commit(ctx, token)

	return placed, nil
}

func (h *CheckoutCommandHandler) persist(ctx context.Context, placed *order.Order, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	buyer, err := uow.AccountRepository().Get(ctx, placed.AccountID())
	if err != nil {
		return err
	}
	if err = buyer.AppendOrder(placed.ID()); err != nil {
		return err
	}
	buyer.PruneCart(placed.ProductIDs())
	if err = uow.AccountRepository().Update(ctx, buyer); err != nil {
		return err
	}

	confirmation, err := newOrderConfirmationMessage(placed, buyer.Email(), now)
	if err != nil {
		return err
	}
	if err = uow.OutboxRepository().Add(ctx, confirmation); err != nil {
		return err
	}
	if len(h.staffEmails) > 0 {
		alert, alertErr := newStaffAlertMessage(placed, h.staffEmails, now)
		if alertErr != nil {
			return alertErr
		}
		if err = uow.OutboxRepository().Add(ctx, alert); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func (h *CheckoutCommandHandler) priceCart(
	ctx context.Context,
	cmd CheckoutCommand,
	products map[kernel.UUID]*product.Product,
	taxCountry, taxState string,
	now time.Time,
) (order.Draft, error) {
	requested := make([]services.RequestedLine, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		requested = append(requested, services.RequestedLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	return h.pricing.BuildDraft(ctx, services.PricingInput{
		Lines:          requested,
		Products:       products,
		CouponCode:     cmd.CouponCode(),
		TaxCountry:     taxCountry,
		TaxState:       taxState,
		ShippingMethod: cmd.ShippingMethod(),
		RateQuote:      cmd.RateQuote(),
		Now:            now,
	})
}

// taxDestination picks the location tax is charged for: the shipping address
// when present, otherwise the buyer's stored company location.
// resolveShippingAddress turns the command's destination into a concrete
// address: a saved address id is looked up in the buyer's address book, an
// inline address passes through as is.
func resolveShippingAddress(cmd CheckoutCommand, buyer *account.Account) (*kernel.Address, error) {
	if id := cmd.ShippingAddressID(); id != nil {
		address, err := buyer.AddressByID(*id)
		if err != nil {
			return nil, err
		}
		return &address, nil
	}
	return cmd.ShippingAddress(), nil
}

func taxDestination(address *kernel.Address, buyer *account.Account) (country, state string) {
	if address != nil && address.Country() != "" {
		return address.Country(), address.State()
	}
	return buyer.TaxLocation()
}

func productIDsOf(lines []CheckoutLine) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func reservationLines(draft order.Draft, products map[kernel.UUID]*product.Product) []ports.ReservationLine {
	quantities := draft.Quantities()
	lines := make([]ports.ReservationLine, 0, len(quantities))
	for id, quantity := range quantities {
		allowBackorder := false
		if p, ok := products[id]; ok {
			allowBackorder = p.AllowBackorder()
		}
		lines = append(lines, ports.ReservationLine{
			ProductID:      id,
			Quantity:       quantity,
			AllowBackorder: allowBackorder,
		})
	}
	return lines
}
