package identity

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
)

// UnitOfWork is the transaction boundary the identity services work in
type UnitOfWork interface {
	appshared.UnitOfWork
	Users() identity.UserRepository
	Roles() identity.RoleRepository
	UserRoles() identity.UserRoleRepository
	RefreshTokens() identity.RefreshTokenRepository
}

// UnitOfWorkFactory opens a unit of work bound to ctx
type UnitOfWorkFactory func(ctx context.Context) (UnitOfWork, error)

func users(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[identity.User, *identity.User, uuid.UUID] {
	return appshared.NewEntityService[identity.User, *identity.User, uuid.UUID](uow.Users(), uow, opts...)
}

func roles(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[identity.Role, *identity.Role, uuid.UUID] {
	return appshared.NewEntityService[identity.Role, *identity.Role, uuid.UUID](uow.Roles(), uow, opts...)
}

func userRoles(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[identity.UserRole, *identity.UserRole, uuid.UUID] {
	return appshared.NewEntityService[identity.UserRole, *identity.UserRole, uuid.UUID](uow.UserRoles(), uow, opts...)
}

func refreshTokens(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[identity.RefreshToken, *identity.RefreshToken, uuid.UUID] {
	return appshared.NewEntityService[identity.RefreshToken, *identity.RefreshToken, uuid.UUID](uow.RefreshTokens(), uow, opts...)
}
