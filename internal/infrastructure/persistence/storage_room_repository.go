package persistence

import (
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStorageRoomRepository implements inventory.StorageRoomRepository using GORM
type GormStorageRoomRepository struct {
	*MappedRepository[inventory.StorageRoom, models.StorageRoomModel, *models.StorageRoomModel, uuid.UUID]
}

var _ inventory.StorageRoomRepository = (*GormStorageRoomRepository)(nil)

// NewGormStorageRoomRepository creates a new GormStorageRoomRepository
func NewGormStorageRoomRepository(db *gorm.DB) *GormStorageRoomRepository {
	return newGormStorageRoomRepository(db, nil)
}

func newGormStorageRoomRepository(db *gorm.DB, tracker *changeTracker) *GormStorageRoomRepository {
	base := newGormRepository[models.StorageRoomModel, *models.StorageRoomModel, uuid.UUID](db, tracker)
	return &GormStorageRoomRepository{NewMappedRepository(base, models.StorageRoomMapper)}
}
