package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	info := f.register(t, "Alice@Example.com")
	assert.Equal(t, "alice@example.com", info.Email)
	assert.Equal(t, "Test User", info.Name)
	assert.Empty(t, info.Roles)

	t.Run("email taken", func(t *testing.T) {
		_, err := f.users.Register(ctx, RegisterInput{Email: "ALICE@example.com", Password: "password123"})
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.users.Register(ctx, RegisterInput{Email: "not-an-email", Password: "short"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("audit stamp comes from the caller", func(t *testing.T) {
		got, err := f.users.GetByID(ctx, info.ID)
		require.NoError(t, err)
		assert.Equal(t, info.ID, got.ID)

		uow, err := f.open(ctx)
		require.NoError(t, err)
		defer uow.Close()
		stored, err := uow.Users().Find(ctx, info.ID, unscoped)
		require.NoError(t, err)
		assert.Equal(t, shared.SystemUserName, stored.CreatedBy)
		assert.False(t, stored.CreatedAt.IsZero())
	})
}

func TestUserService_AssignRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	_, err := f.roles.Create(ctx, "clerk")
	require.NoError(t, err)
	_, err = f.roles.Create(ctx, "admin")
	require.NoError(t, err)

	require.NoError(t, f.users.AssignRole(ctx, alice.ID, "clerk"))
	require.NoError(t, f.users.AssignRole(ctx, alice.ID, "CLERK"))
	require.NoError(t, f.users.AssignRole(ctx, alice.ID, "admin"))

	names, err := f.users.RolesOf(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "clerk"}, names)

	t.Run("unknown role", func(t *testing.T) {
		err := f.users.AssignRole(ctx, alice.ID, "auditor")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := f.users.AssignRole(ctx, uuid.New(), "clerk")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("revoke", func(t *testing.T) {
		require.NoError(t, f.users.RevokeRole(ctx, alice.ID, "admin"))
		require.NoError(t, f.users.RevokeRole(ctx, alice.ID, "admin"))
		names, err := f.users.RolesOf(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"clerk"}, names)
	})

	t.Run("role in use cannot be deleted", func(t *testing.T) {
		clerk, err := f.roles.GetByName(ctx, "clerk")
		require.NoError(t, err)
		assert.ErrorIs(t, f.roles.Delete(ctx, clerk.ID), shared.ErrConflict)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	session := f.login(t, "alice@example.com")

	err := f.users.ChangePassword(ctx, ChangePasswordInput{UserID: alice.ID, OldPassword: "wrong-one", NewPassword: "new-password"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	require.NoError(t, f.users.ChangePassword(ctx, ChangePasswordInput{
		UserID: alice.ID, OldPassword: "password123", NewPassword: "new-password",
	}))

	_, err = f.auth.Refresh(ctx, RefreshInput{UserID: alice.ID, RefreshToken: session.RefreshToken})
	assert.ErrorIs(t, err, shared.ErrRefreshTokenNotFound)

	_, err = f.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.register(t, "bob@example.com")
	_, err := f.roles.Create(ctx, "clerk")
	require.NoError(t, err)
	require.NoError(t, f.users.AssignRole(ctx, alice.ID, "clerk"))
	aliceSession := f.login(t, "alice@example.com")
	bobSession := f.login(t, "bob@example.com")

	require.NoError(t, f.users.DeleteUser(ctx, alice.ID))

	_, err = f.users.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, f.refreshRecord(t, aliceSession.RefreshToken))
	assert.NotNil(t, f.refreshRecord(t, bobSession.RefreshToken))

	_, err = f.auth.Authenticate(ctx, aliceSession.AccessToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = f.auth.Authenticate(ctx, bobSession.AccessToken)
	assert.NoError(t, err)

	clerk, err := f.roles.GetByName(ctx, "clerk")
	require.NoError(t, err)
	assert.NoError(t, f.roles.Delete(ctx, clerk.ID))

	assert.ErrorIs(t, f.users.DeleteUser(ctx, alice.ID), shared.ErrNotFound)
}

func TestRoleService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	clerk, err := f.roles.Create(ctx, "clerk")
	require.NoError(t, err)

	_, err = f.roles.Create(ctx, " Clerk ")
	assert.ErrorIs(t, err, shared.ErrConflict)

	renamed, err := f.roles.Rename(ctx, clerk.ID, "stock clerk")
	require.NoError(t, err)
	assert.Equal(t, "stock clerk", renamed.Name)

	_, err = f.roles.GetByName(ctx, "clerk")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.roles.Create(ctx, "admin")
	require.NoError(t, err)
	_, err = f.roles.Rename(ctx, clerk.ID, "ADMIN")
	assert.ErrorIs(t, err, shared.ErrConflict)

	all, err := f.roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.roles.Rename(ctx, uuid.New(), "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
