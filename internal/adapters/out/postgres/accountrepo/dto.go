// Package accountrepo persists account aggregates: the buyer identity plus
// the order history and stored cart the checkout transaction mutates.
package accountrepo

import (
	"encoding/json"

	"github.com/google/uuid"

	"checkout/internal/core/domain/model/account"
	"checkout/internal/core/domain/model/kernel"
)

// AccountDTO represents the database structure for persisting accounts.
// Order history and cart contents are jsonb arrays of UUIDs; the address
// book is a jsonb array of saved addresses.
type AccountDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"index"`
	Name           string
	OrderIDs       []byte `gorm:"type:jsonb"`
	CartProductIDs []byte `gorm:"type:jsonb"`
	Addresses      []byte `gorm:"type:jsonb"`
	CompanyCountry string
	CompanyState   string
}

// savedAddressDTO mirrors the address jsonb shape the orders table uses,
// plus the identifier checkout requests reference.
type savedAddressDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Street1    string    `json:"street1"`
	Street2    string    `json:"street2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
}

// TableName overrides GORM's default naming to use "accounts".
func (AccountDTO) TableName() string {
	return "accounts"
}

func fromDomain(aggregate *account.Account) (AccountDTO, error) {
	orderIDs, err := marshalUUIDs(aggregate.OrderIDs())
	if err != nil {
		return AccountDTO{}, err
	}
	cartIDs, err := marshalUUIDs(aggregate.CartProductIDs())
	if err != nil {
		return AccountDTO{}, err
	}
	addresses, err := marshalAddresses(aggregate.Addresses())
	if err != nil {
		return AccountDTO{}, err
	}

	country, state := aggregate.TaxLocation()
	return AccountDTO{
		ID:             aggregate.ID().Bytes(),
		Email:          aggregate.Email(),
		Name:           aggregate.Name(),
		OrderIDs:       orderIDs,
		CartProductIDs: cartIDs,
		Addresses:      addresses,
		CompanyCountry: country,
		CompanyState:   state,
	}, nil
}

func toDomain(dto AccountDTO) (*account.Account, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderIDs, err := unmarshalUUIDs(dto.OrderIDs)
	if err != nil {
		return nil, err
	}
	cartIDs, err := unmarshalUUIDs(dto.CartProductIDs)
	if err != nil {
		return nil, err
	}
	addresses, err := unmarshalAddresses(dto.Addresses)
	if err != nil {
		return nil, err
	}

	return account.RestoreAccount(
		id, dto.Email, dto.Name,
		orderIDs, cartIDs, addresses,
		dto.CompanyCountry, dto.CompanyState,
	)
}

func marshalAddresses(saved []account.SavedAddress) ([]byte, error) {
	raw := make([]savedAddressDTO, 0, len(saved))
	for _, s := range saved {
		raw = append(raw, savedAddressDTO{
			ID:         s.ID.Bytes(),
			Name:       s.Address.Name(),
			Street1:    s.Address.Street1(),
			Street2:    s.Address.Street2(),
			City:       s.Address.City(),
			State:      s.Address.State(),
			PostalCode: s.Address.PostalCode(),
			Country:    s.Address.Country(),
			Phone:      s.Address.Phone(),
		})
	}
	return json.Marshal(raw)
}

func unmarshalAddresses(data []byte) ([]account.SavedAddress, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var raw []savedAddressDTO
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	saved := make([]account.SavedAddress, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r.ID[:])
		if err != nil {
			return nil, err
		}
		address, err := kernel.NewAddress(
			r.Name, r.Street1, r.Street2, r.City,
			r.State, r.PostalCode, r.Country, r.Phone,
		)
		if err != nil {
			return nil, err
		}
		saved = append(saved, account.SavedAddress{ID: id, Address: address})
	}
	return saved, nil
}

func marshalUUIDs(ids []kernel.UUID) ([]byte, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return json.Marshal(raw)
}

func unmarshalUUIDs(data []byte) ([]kernel.UUID, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var raw []uuid.UUID
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
