package productrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/product"
)

// ProductDTO represents the database structure for the catalog snapshot the
// checkout reads. Sale fields are nullable; the sale window bounds are open
// when NULL.
type ProductDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Price          float64
	SalePrice      *float64
	SaleStart      *time.Time
	SaleEnd        *time.Time
	CategoryIDs    []byte `gorm:"type:jsonb"`
	AllowBackorder bool
}

// TableName overrides GORM's default naming to use "products".
func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) (ProductDTO, error) {
	categoryIDs, err := marshalUUIDs(p.CategoryIDs())
	if err != nil {
		return ProductDTO{}, err
	}

	dto := ProductDTO{
		ID:             p.ID().Bytes(),
		Name:           p.Name(),
		Price:          p.Price().Amount(),
		SaleStart:      p.SaleStart(),
		SaleEnd:        p.SaleEnd(),
		CategoryIDs:    categoryIDs,
		AllowBackorder: p.AllowBackorder(),
	}
	if sale := p.SalePrice(); sale != nil {
		amount := sale.Amount()
		dto.SalePrice = &amount
	}
	return dto, nil
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	var salePrice *kernel.Money
	if dto.SalePrice != nil {
		sale, err := kernel.NewMoney(*dto.SalePrice)
		if err != nil {
			return nil, err
		}
		salePrice = &sale
	}

	categoryIDs, err := unmarshalUUIDs(dto.CategoryIDs)
	if err != nil {
		return nil, err
	}

	return product.NewProduct(id, dto.Name, price, salePrice, dto.SaleStart, dto.SaleEnd, categoryIDs, dto.AllowBackorder)
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
