package kernel

import (
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when validating an Address that was
// not created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("Address must be created via NewAddress")

// Address is a value object holding a postal address snapshot. Orders carry
// the ship-to address as an Address taken at checkout time; carrier label
// requests are built from it.
type Address struct {
	name       string
	street1    string
	street2    string
	city       string
	state      string
	postalCode string
	country    string
	phone      string

	guard guard.ConstructorGuard
}

// NewAddress creates an Address. Street, city, and country are required;
// the remaining fields are optional.
func NewAddress(name, street1, street2, city, state, postalCode, country, phone string) (Address, error) {
	if street1 == "" {
		return Address{}, errs.NewValueIsRequiredError("street1")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if country == "" {
		return Address{}, errs.NewValueIsRequiredError("country")
	}

	return Address{
		name:       name,
		street1:    street1,
		street2:    street2,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
		phone:      phone,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Address was created via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Name returns the recipient name.
func (a Address) Name() string { return a.name }

// Street1 returns the first street line.
func (a Address) Street1() string { return a.street1 }

// Street2 returns the second street line, if any.
func (a Address) Street2() string { return a.street2 }

// City returns the city.
func (a Address) City() string { return a.city }

// State returns the state or province, if any.
func (a Address) State() string { return a.state }

// PostalCode returns the postal code, if any.
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country code.
func (a Address) Country() string { return a.country }

// Phone returns the contact phone number, if any.
func (a Address) Phone() string { return a.phone }
