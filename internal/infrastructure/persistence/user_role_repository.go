package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRoleRepository implements identity.UserRoleRepository using GORM.
// Role membership is answered with joins over user_roles.
type GormUserRoleRepository struct {
	*MappedRepository[identity.UserRole, models.UserRoleModel, *models.UserRoleModel, uuid.UUID]
	db *gorm.DB
}

var _ identity.UserRoleRepository = (*GormUserRoleRepository)(nil)

// NewGormUserRoleRepository creates a new GormUserRoleRepository
func NewGormUserRoleRepository(db *gorm.DB) *GormUserRoleRepository {
	return newGormUserRoleRepository(db, nil)
}

func newGormUserRoleRepository(db *gorm.DB, tracker *changeTracker) *GormUserRoleRepository {
	base := newGormRepository[models.UserRoleModel, *models.UserRoleModel, uuid.UUID](db, tracker)
	return &GormUserRoleRepository{
		MappedRepository: NewMappedRepository(base, models.UserRoleMapper),
		db:               db,
	}
}

// FindLink returns the link between userID and roleID, or nil
func (r *GormUserRoleRepository) FindLink(ctx context.Context, userID, roleID uuid.UUID) (*identity.UserRole, error) {
	m, err := r.Models().FindOne(ctx, shared.Unscoped[uuid.UUID](), "user_id = ? AND role_id = ?", userID, roleID)
	if err != nil {
		return nil, err
	}
	return models.UserRoleMapper.ToUpper(m), nil
}

// RolesForUser returns the roles linked to userID, ordered by name
func (r *GormUserRoleRepository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]*identity.Role, error) {
	if err := r.Models().Check(); err != nil {
		return nil, err
	}
	var rows []models.RoleModel
	err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.normalized_name").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("roles for user", err)
	}
	roles := make([]*identity.Role, len(rows))
	for i := range rows {
		roles[i] = models.RoleMapper.ToUpper(&rows[i])
	}
	return roles, nil
}

// UsersInRole returns the users linked to roleID, ordered by email
func (r *GormUserRoleRepository) UsersInRole(ctx context.Context, roleID uuid.UUID) ([]*identity.User, error) {
	if err := r.Models().Check(); err != nil {
		return nil, err
	}
	var rows []models.UserModel
	err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", roleID).
		Order("users.email").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("users in role", err)
	}
	users := make([]*identity.User, len(rows))
	for i := range rows {
		users[i] = models.UserMapper.ToUpper(&rows[i])
	}
	return users, nil
}

// RemoveForUser deletes every link of a user
func (r *GormUserRoleRepository) RemoveForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.Models().DeleteWhere(ctx, shared.Unscoped[uuid.UUID](), "user_id = ?", userID)
	return err
}
