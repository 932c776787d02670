package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	shared.Repository[User, uuid.UUID]

	// FindByEmail returns nil, nil when no user has the (normalized) email
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	shared.Repository[Role, uuid.UUID]

	// FindByName looks a role up by its normalized name
	FindByName(ctx context.Context, name string) (*Role, error)
}

// UserRoleRepository stores user/role links and answers join queries over them.
type UserRoleRepository interface {
	shared.Repository[UserRole, uuid.UUID]

	// FindLink returns the link between userID and roleID, or nil
	FindLink(ctx context.Context, userID, roleID uuid.UUID) (*UserRole, error)

	// RolesForUser joins user_roles with roles for one user
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]*Role, error)

	// UsersInRole joins user_roles with users for one role
	UsersInRole(ctx context.Context, roleID uuid.UUID) ([]*User, error)

	// RemoveForUser deletes every link of a user
	RemoveForUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshTokenRepository stores refresh token records. RefreshToken is
// Ownable, so every lookup honors the scope it is given.
type RefreshTokenRepository interface {
	shared.Repository[RefreshToken, uuid.UUID]

	// FindByHash returns nil, nil when no visible token has the hash
	FindByHash(ctx context.Context, tokenHash string, scope shared.Scope[uuid.UUID]) (*RefreshToken, error)

	// RevokeAllForUser revokes every active token of userID and returns how many changed
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason string, at time.Time) (int64, error)

	// DeleteExpired removes tokens that expired before the given instant
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
