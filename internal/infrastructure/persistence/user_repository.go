package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	*MappedRepository[identity.User, models.UserModel, *models.UserModel, uuid.UUID]
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return newGormUserRepository(db, nil)
}

func newGormUserRepository(db *gorm.DB, tracker *changeTracker) *GormUserRepository {
	base := newGormRepository[models.UserModel, *models.UserModel, uuid.UUID](db, tracker)
	return &GormUserRepository{NewMappedRepository(base, models.UserMapper)}
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	m, err := r.Models().FindOne(ctx, shared.Unscoped[uuid.UUID](), "email = ?", email)
	if err != nil {
		return nil, err
	}
	return models.UserMapper.ToUpper(m), nil
}
