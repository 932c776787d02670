package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements inventory.ProductRepository using GORM
type GormProductRepository struct {
	*MappedRepository[inventory.Product, models.ProductModel, *models.ProductModel, uuid.UUID]
}

var _ inventory.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return newGormProductRepository(db, nil)
}

func newGormProductRepository(db *gorm.DB, tracker *changeTracker) *GormProductRepository {
	base := newGormRepository[models.ProductModel, *models.ProductModel, uuid.UUID](db, tracker)
	return &GormProductRepository{NewMappedRepository(base, models.ProductMapper)}
}

// FindBySKU returns the visible product with the SKU, or nil
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string, scope shared.Scope[uuid.UUID]) (*inventory.Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, nil
	}
	m, err := r.Models().FindOne(ctx, scope, "sku = ?", sku)
	if err != nil {
		return nil, err
	}
	return models.ProductMapper.ToUpper(m), nil
}

// FindLowStock returns visible products at or below a non-zero threshold
func (r *GormProductRepository) FindLowStock(ctx context.Context, scope shared.Scope[uuid.UUID]) ([]*inventory.Product, error) {
	rows, err := r.Models().FindMany(ctx, scope, "name", "min_quantity > 0 AND quantity <= min_quantity")
	if err != nil {
		return nil, err
	}
	return r.mapAll(rows), nil
}
