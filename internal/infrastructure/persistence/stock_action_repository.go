package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockActionRepository implements inventory.StockActionRepository using GORM
type GormStockActionRepository struct {
	*MappedRepository[inventory.StockAction, models.StockActionModel, *models.StockActionModel, uuid.UUID]
}

var _ inventory.StockActionRepository = (*GormStockActionRepository)(nil)

// NewGormStockActionRepository creates a new GormStockActionRepository
func NewGormStockActionRepository(db *gorm.DB) *GormStockActionRepository {
	return newGormStockActionRepository(db, nil)
}

func newGormStockActionRepository(db *gorm.DB, tracker *changeTracker) *GormStockActionRepository {
	base := newGormRepository[models.StockActionModel, *models.StockActionModel, uuid.UUID](db, tracker)
	return &GormStockActionRepository{NewMappedRepository(base, models.StockActionMapper)}
}

// ForProduct lists a product's journal, oldest first
func (r *GormStockActionRepository) ForProduct(ctx context.Context, productID uuid.UUID, scope shared.Scope[uuid.UUID]) ([]*inventory.StockAction, error) {
	rows, err := r.Models().FindMany(ctx, scope, "performed_at, id", "product_id = ?", productID)
	if err != nil {
		return nil, err
	}
	return r.mapAll(rows), nil
}
