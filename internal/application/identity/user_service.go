package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	openUoW   UnitOfWorkFactory
	revoked   auth.TokenRevocationList
	accessTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
	opts      []appshared.ServiceOption
}

// NewUserService creates a new user service. accessTTL bounds how long a
// user-wide revocation has to be remembered.
func NewUserService(
	openUoW UnitOfWorkFactory,
	revoked auth.TokenRevocationList,
	accessTTL time.Duration,
	logger *zap.Logger,
	opts ...appshared.ServiceOption,
) *UserService {
	return &UserService{
		openUoW:   openUoW,
		revoked:   revoked,
		accessTTL: accessTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		opts:      opts,
	}
}

// Register creates a user. The email must not be taken.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	user, err := identity.NewUser(uuid.Nil, input.Email, input.FirstName, input.LastName, input.Password)
	if err != nil {
		return nil, err
	}

	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*UserInfo, error) {
		existing, err := uow.Users().FindByEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError(shared.ErrConflict.Code, "Email is already registered")
		}
		if err := users(uow, s.opts...).Add(ctx, user, unscoped); err != nil {
			return nil, err
		}
		s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
		info := toUserInfo(user, nil)
		return &info, nil
	})
}

// GetByID returns a user with its roles; ErrNotFound when absent
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*UserInfo, error) {
		user, err := uow.Users().Find(ctx, id, unscoped)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, shared.ErrNotFound
		}
		userRoles, err := uow.UserRoles().RolesForUser(ctx, id)
		if err != nil {
			return nil, err
		}
		info := toUserInfo(user, userRoles)
		return &info, nil
	})
}

// AssignRole gives a user a role. Assigning a role the user already holds
// changes nothing.
func (s *UserService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
		user, err := uow.Users().Find(ctx, userID, unscoped)
		if err != nil {
			return false, err
		}
		if user == nil {
			return false, shared.NewDomainError(shared.ErrNotFound.Code, "User not found")
		}
		role, err := uow.Roles().FindByName(ctx, roleName)
		if err != nil {
			return false, err
		}
		if role == nil {
			return false, shared.NewDomainError(shared.ErrNotFound.Code, "Role "+roleName+" not found")
		}
		return linkRole(ctx, uow, user.ID, role.ID, s.opts...)
	})
	return err
}

// RevokeRole removes a role from a user. Removing one the user lacks is a no-op.
func (s *UserService) RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
		role, err := uow.Roles().FindByName(ctx, roleName)
		if err != nil || role == nil {
			return false, err
		}
		link, err := uow.UserRoles().FindLink(ctx, userID, role.ID)
		if err != nil || link == nil {
			return false, err
		}
		return true, uow.UserRoles().RemoveEntity(ctx, link, unscoped)
	})
	return err
}

// RolesOf lists the names of a user's roles, ordered by name
func (s *UserService) RolesOf(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]string, error) {
		userRoles, err := uow.UserRoles().RolesForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return roleNames(userRoles), nil
	})
}

// ChangePassword replaces a user's password and revokes every refresh token
// they hold, so other sessions have to log in again.
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := appshared.ValidateInput(input); err != nil {
		return err
	}
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (int64, error) {
		user, err := uow.Users().Find(ctx, input.UserID, unscoped)
		if err != nil {
			return 0, err
		}
		if user == nil {
			return 0, shared.ErrNotFound
		}
		if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
			return 0, err
		}
		if _, err := users(uow, s.opts...).Update(ctx, user, unscoped); err != nil {
			return 0, err
		}
		return uow.RefreshTokens().RevokeAllForUser(ctx, user.ID, identity.RevokedReasonAdmin, s.now())
	})
	return err
}

// DeleteUser removes a user together with their role links and refresh
// tokens in one commit, then rejects access tokens already issued to them.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
		exists, err := uow.Users().Exists(ctx, userID, unscoped)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, shared.ErrNotFound
		}
		if err := uow.UserRoles().RemoveForUser(ctx, userID); err != nil {
			return false, err
		}
		tokens, err := shared.Collect(uow.RefreshTokens().All(ctx, shared.ScopedTo(userID)))
		if err != nil {
			return false, err
		}
		for _, t := range tokens {
			if err := uow.RefreshTokens().RemoveEntity(ctx, t, shared.ScopedTo(userID)); err != nil {
				return false, err
			}
		}
		return true, uow.Users().Remove(ctx, userID, unscoped)
	})
	if err != nil {
		return err
	}

	if err := s.revoked.RevokeUser(ctx, userID.String(), s.now(), s.accessTTL); err != nil {
		return fmt.Errorf("revoke access tokens: %w", err)
	}
	s.logger.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}

func linkRole(ctx context.Context, uow UnitOfWork, userID, roleID uuid.UUID, opts ...appshared.ServiceOption) (bool, error) {
	link, err := uow.UserRoles().FindLink(ctx, userID, roleID)
	if err != nil {
		return false, err
	}
	if link != nil {
		return false, nil
	}
	if err := userRoles(uow, opts...).Add(ctx, identity.NewUserRole(userID, roleID), unscoped); err != nil {
		return false, err
	}
	return true, nil
}
