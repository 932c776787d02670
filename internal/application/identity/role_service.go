package identity

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations. Roles are not owned by a
// user, so every repository call here is unscoped.
type RoleService struct {
	openUoW UnitOfWorkFactory
	logger  *zap.Logger
	opts    []appshared.ServiceOption
}

// NewRoleService creates a new role service
func NewRoleService(openUoW UnitOfWorkFactory, logger *zap.Logger, opts ...appshared.ServiceOption) *RoleService {
	return &RoleService{openUoW: openUoW, logger: logger, opts: opts}
}

var unscoped = shared.Unscoped[uuid.UUID]()

// Create adds a role. A name already taken (case-insensitively) is ErrConflict.
func (s *RoleService) Create(ctx context.Context, name string) (*RoleInfo, error) {
	role, err := identity.NewRole(uuid.Nil, name)
	if err != nil {
		return nil, err
	}
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*RoleInfo, error) {
		existing, err := uow.Roles().FindByName(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError(shared.ErrConflict.Code, "Role "+role.Name+" already exists")
		}
		if err := roles(uow, s.opts...).Add(ctx, role, unscoped); err != nil {
			return nil, err
		}
		s.logger.Info("Role created", zap.String("role", role.Name))
		return toRoleInfo(role), nil
	})
}

// GetByName looks a role up by name; ErrNotFound when absent
func (s *RoleService) GetByName(ctx context.Context, name string) (*RoleInfo, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*RoleInfo, error) {
		role, err := uow.Roles().FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, shared.ErrNotFound
		}
		return toRoleInfo(role), nil
	})
}

// List returns every role ordered by id
func (s *RoleService) List(ctx context.Context) ([]RoleInfo, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]RoleInfo, error) {
		all, err := shared.Collect(uow.Roles().All(ctx, unscoped))
		if err != nil {
			return nil, err
		}
		out := make([]RoleInfo, 0, len(all))
		for _, r := range all {
			out = append(out, *toRoleInfo(r))
		}
		return out, nil
	})
}

// Rename changes a role's name
func (s *RoleService) Rename(ctx context.Context, id uuid.UUID, name string) (*RoleInfo, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*RoleInfo, error) {
		role, err := uow.Roles().Find(ctx, id, unscoped)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, shared.ErrNotFound
		}
		if err := role.Rename(name); err != nil {
			return nil, err
		}
		taken, err := uow.Roles().FindByName(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != role.ID {
			return nil, shared.NewDomainError(shared.ErrConflict.Code, "Role "+role.Name+" already exists")
		}
		updated, err := roles(uow, s.opts...).Update(ctx, role, unscoped)
		if err != nil {
			return nil, err
		}
		return toRoleInfo(updated), nil
	})
}

// Delete removes a role that no user holds. Deleting a role in use is ErrConflict.
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (struct{}, error) {
		holders, err := uow.UserRoles().UsersInRole(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		if len(holders) > 0 {
			return struct{}{}, shared.NewDomainError(shared.ErrConflict.Code, "Role is still assigned to users")
		}
		return struct{}{}, uow.Roles().Remove(ctx, id, unscoped)
	})
	return err
}

func toRoleInfo(r *identity.Role) *RoleInfo {
	return &RoleInfo{ID: r.ID, Name: r.Name}
}
