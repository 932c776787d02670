package persistence

import (
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierRepository implements inventory.SupplierRepository using GORM
type GormSupplierRepository struct {
	*MappedRepository[inventory.Supplier, models.SupplierModel, *models.SupplierModel, uuid.UUID]
}

var _ inventory.SupplierRepository = (*GormSupplierRepository)(nil)

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return newGormSupplierRepository(db, nil)
}

func newGormSupplierRepository(db *gorm.DB, tracker *changeTracker) *GormSupplierRepository {
	base := newGormRepository[models.SupplierModel, *models.SupplierModel, uuid.UUID](db, tracker)
	return &GormSupplierRepository{NewMappedRepository(base, models.SupplierMapper)}
}
