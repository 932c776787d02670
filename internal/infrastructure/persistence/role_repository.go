package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	*MappedRepository[identity.Role, models.RoleModel, *models.RoleModel, uuid.UUID]
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return newGormRoleRepository(db, nil)
}

func newGormRoleRepository(db *gorm.DB, tracker *changeTracker) *GormRoleRepository {
	base := newGormRepository[models.RoleModel, *models.RoleModel, uuid.UUID](db, tracker)
	return &GormRoleRepository{NewMappedRepository(base, models.RoleMapper)}
}

// FindByName looks a role up by its normalized name
func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	normalized := identity.NormalizeRoleName(name)
	if normalized == "" {
		return nil, nil
	}
	m, err := r.Models().FindOne(ctx, shared.Unscoped[uuid.UUID](), "normalized_name = ?", normalized)
	if err != nil {
		return nil, err
	}
	return models.RoleMapper.ToUpper(m), nil
}
