// Package account models the customer account as the checkout core touches
// it: the order history appended on checkout, the stored cart pruned of
// purchased products, the address book checkout requests reference by id,
// and the saved company location used as the tax fallback. Authentication
// and profile management live elsewhere.
package account

import (
	"errors"
	"strings"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrAccountIsNotConstructed is returned when an Account instance was not
// created through the NewAccount or RestoreAccount factory methods.
var ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount constructor")

// SavedAddress is one entry in the account's address book, referenced by
// checkout requests through its identifier.
type SavedAddress struct {
	ID      kernel.UUID
	Address kernel.Address
}

// Account is the customer aggregate owning orders, a stored cart, and an
// address book.
type Account struct {
	id             kernel.UUID
	email          string
	name           string
	orderIDs       []kernel.UUID
	cartProductIDs []kernel.UUID
	addresses      []SavedAddress
	companyCountry string
	companyState   string

	isConstructed bool
}

// NewAccount creates an Account with validation.
func NewAccount(id kernel.UUID, email, name string) (*Account, error) {
	a := &Account{isConstructed: true}

	if err := errors.Join(
		a.setID(id),
		a.setEmail(email),
	); err != nil {
		return nil, err
	}

	a.name = name
	return a, nil
}

// RestoreAccount reconstructs an Account from persistence, including its
// order history, stored cart, address book, and saved company location.
func RestoreAccount(
	id kernel.UUID,
	email, name string,
	orderIDs, cartProductIDs []kernel.UUID,
	addresses []SavedAddress,
	companyCountry, companyState string,
) (*Account, error) {
	a, err := NewAccount(id, email, name)
	if err != nil {
		return nil, err
	}

	a.orderIDs = orderIDs
	a.cartProductIDs = cartProductIDs
	a.addresses = addresses
	a.companyCountry = companyCountry
	a.companyState = companyState
	return a, nil
}

// Validate ensures the Account instance was properly constructed.
func (a *Account) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAccountIsNotConstructed
	}
	return nil
}

// ID returns the account's unique identifier.
func (a *Account) ID() kernel.UUID { return a.id }

// Email returns the account's email address.
func (a *Account) Email() string { return a.email }

// Name returns the account holder's display name.
func (a *Account) Name() string { return a.name }

// OrderIDs returns the account's order history, oldest first.
func (a *Account) OrderIDs() []kernel.UUID { return a.orderIDs }

// CartProductIDs returns the product ids currently in the stored cart.
func (a *Account) CartProductIDs() []kernel.UUID { return a.cartProductIDs }

// Addresses returns the account's address book.
func (a *Account) Addresses() []SavedAddress { return a.addresses }

// AddressByID resolves a saved address by its identifier.
// Returns errs.ObjectNotFoundError when the address book has no such entry.
func (a *Account) AddressByID(id kernel.UUID) (kernel.Address, error) {
	if err := id.Validate(); err != nil {
		return kernel.Address{}, err
	}
	for _, saved := range a.addresses {
		if saved.ID.IsEqual(id) {
			return saved.Address, nil
		}
	}
	return kernel.Address{}, errs.NewObjectNotFoundError("shippingAddressId", id.String())
}

// SaveAddress adds an address to the address book, replacing any entry with
// the same identifier.
func (a *Account) SaveAddress(id kernel.UUID, address kernel.Address) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := address.Validate(); err != nil {
		return err
	}

	for i, saved := range a.addresses {
		if saved.ID.IsEqual(id) {
			a.addresses[i].Address = address
			return nil
		}
	}
	a.addresses = append(a.addresses, SavedAddress{ID: id, Address: address})
	return nil
}

// TaxLocation returns the saved company location used as the tax fallback
// when a checkout request carries no explicit billing location.
func (a *Account) TaxLocation() (country, state string) {
	return a.companyCountry, a.companyState
}

// AppendOrder records a newly committed order in the account's history.
func (a *Account) AppendOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderIDs = append(a.orderIDs, orderID)
	return nil
}

// PruneCart removes the given product ids from the stored cart, typically
// the products just purchased. Unknown ids are ignored.
func (a *Account) PruneCart(productIDs []kernel.UUID) {
	if len(productIDs) == 0 || len(a.cartProductIDs) == 0 {
		return
	}

	purchased := make(map[kernel.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		purchased[id] = struct{}{}
	}

	kept := a.cartProductIDs[:0]
	for _, id := range a.cartProductIDs {
		if _, ok := purchased[id]; !ok {
			kept = append(kept, id)
		}
	}
	a.cartProductIDs = kept
}

func (a *Account) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Account) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if !strings.Contains(email, "@") {
		return errs.NewValueIsInvalidError("email")
	}
	a.email = email
	return nil
}
