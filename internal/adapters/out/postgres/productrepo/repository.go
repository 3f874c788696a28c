// Package productrepo implements the catalog read port over the products
// table. The checkout does not own the catalog; it reads the snapshot fields
// pricing and reservation need.
package productrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/product"
	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

var _ ports.Catalog = (*GormProductRepository)(nil)

// GormProductRepository implements Catalog using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetProducts retrieves the products for the given IDs in a single query.
// The first requested ID missing from the result yields ObjectNotFoundError.
func (r *GormProductRepository) GetProducts(
	ctx context.Context, ids []kernel.UUID,
) (map[kernel.UUID]*product.Product, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	products := make(map[kernel.UUID]*product.Product, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		products[p.ID()] = p
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, errs.NewObjectNotFoundError("productID", id.String())
		}
	}
	return products, nil
}

// Add saves a new product snapshot. The catalog is maintained elsewhere;
// this exists for fixtures and tests.
func (r *GormProductRepository) Add(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
