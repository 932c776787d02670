package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository_FindByEmail(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	u := newTestUser(t, "Stock.Keeper@Example.com")
	require.NoError(t, repo.Add(bg, u, shared.Unscoped[uuid.UUID]()))

	got, err := repo.FindByEmail(bg, "  STOCK.keeper@example.COM ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.VerifyPassword("password123"))

	got, err = repo.FindByEmail(bg, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	t.Run("email is unique", func(t *testing.T) {
		dup := newTestUser(t, "stock.keeper@example.com")
		assert.ErrorIs(t, repo.Add(bg, dup, shared.Unscoped[uuid.UUID]()), shared.ErrConflict)
	})
}

func TestGormUserRoleRepository_Joins(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	roles := NewGormRoleRepository(db)
	links := NewGormUserRoleRepository(db)
	all := shared.Unscoped[uuid.UUID]()

	zoe := newTestUser(t, "zoe@example.com")
	amy := newTestUser(t, "amy@example.com")
	require.NoError(t, users.Add(bg, zoe, all))
	require.NoError(t, users.Add(bg, amy, all))

	admin, err := identity.NewRole(uuid.Nil, "admin")
	require.NoError(t, err)
	clerk, err := identity.NewRole(uuid.Nil, "Clerk")
	require.NoError(t, err)
	require.NoError(t, roles.Add(bg, admin, all))
	require.NoError(t, roles.Add(bg, clerk, all))

	for _, l := range []*identity.UserRole{
		identity.NewUserRole(zoe.ID, clerk.ID),
		identity.NewUserRole(zoe.ID, admin.ID),
		identity.NewUserRole(amy.ID, admin.ID),
	} {
		require.NoError(t, links.Add(bg, l, all))
	}

	t.Run("roles for user ordered by name", func(t *testing.T) {
		got, err := links.RolesForUser(bg, zoe.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "admin", got[0].Name)
		assert.Equal(t, "Clerk", got[1].Name)
	})

	t.Run("users in role ordered by email", func(t *testing.T) {
		got, err := links.UsersInRole(bg, admin.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "amy@example.com", got[0].Email)
		assert.Equal(t, "zoe@example.com", got[1].Email)
	})

	t.Run("link is unique", func(t *testing.T) {
		err := links.Add(bg, identity.NewUserRole(amy.ID, admin.ID), all)
		assert.ErrorIs(t, err, shared.ErrConflict)

		link, err := links.FindLink(bg, amy.ID, admin.ID)
		require.NoError(t, err)
		require.NotNil(t, link)
		link, err = links.FindLink(bg, amy.ID, clerk.ID)
		require.NoError(t, err)
		assert.Nil(t, link)
	})

	t.Run("find role by name", func(t *testing.T) {
		got, err := roles.FindByName(bg, " clerk ")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, clerk.ID, got.ID)
	})

	t.Run("remove for user", func(t *testing.T) {
		require.NoError(t, links.RemoveForUser(bg, zoe.ID))
		got, err := links.RolesForUser(bg, zoe.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGormRefreshTokenRepository(t *testing.T) {
	repo := NewGormRefreshTokenRepository(newTestDB(t))
	alice, bob := uuid.New(), uuid.New()

	active := identity.NewRefreshToken(uuid.Nil, "hash-active", testTime.Add(time.Hour))
	expired := identity.NewRefreshToken(uuid.Nil, "hash-expired", testTime.Add(-time.Hour))
	bobs := identity.NewRefreshToken(uuid.Nil, "hash-bob", testTime.Add(time.Hour))
	for _, tok := range []*identity.RefreshToken{active, expired} {
		tok.StampCreated("test", testTime)
		require.NoError(t, repo.Add(bg, tok, shared.ScopedTo(alice)))
	}
	bobs.StampCreated("test", testTime)
	require.NoError(t, repo.Add(bg, bobs, shared.ScopedTo(bob)))

	t.Run("find by hash honors the scope", func(t *testing.T) {
		got, err := repo.FindByHash(bg, "hash-active", shared.ScopedTo(alice))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice, got.UserID)

		got, err = repo.FindByHash(bg, "hash-active", shared.ScopedTo(bob))
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.FindByHash(bg, "", shared.ScopedTo(alice))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("revoke all for user leaves other users alone", func(t *testing.T) {
		n, err := repo.RevokeAllForUser(bg, alice, identity.RevokedReasonAdmin, testTime)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.RevokeAllForUser(bg, alice, identity.RevokedReasonAdmin, testTime)
		require.NoError(t, err)
		assert.Zero(t, n, "already revoked")

		got, err := repo.FindByHash(bg, "hash-active", shared.ScopedTo(alice))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsRevoked())
		assert.Equal(t, identity.RevokedReasonAdmin, got.RevokedReason)

		got, err = repo.FindByHash(bg, "hash-bob", shared.ScopedTo(bob))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsRevoked())
	})

	t.Run("delete expired", func(t *testing.T) {
		n, err := repo.DeleteExpired(bg, testTime)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		ok, err := repo.Exists(bg, expired.ID, shared.Unscoped[uuid.UUID]())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("first revocation wins", func(t *testing.T) {
		winner, err := repo.FindByHash(bg, "hash-bob", shared.ScopedTo(bob))
		require.NoError(t, err)
		require.NotNil(t, winner)
		loser := *winner

		firstID, secondID := uuid.New(), uuid.New()
		winner.Revoke(testTime, identity.RevokedReasonRotated, &firstID)
		got, err := repo.Update(bg, winner, shared.ScopedTo(bob))
		require.NoError(t, err)
		require.NotNil(t, got)

		loser.Revoke(testTime.Add(time.Minute), identity.RevokedReasonRotated, &secondID)
		got, err = repo.Update(bg, &loser, shared.ScopedTo(bob))
		require.NoError(t, err)
		assert.Nil(t, got, "a revoked record is not overwritten")

		stored, err := repo.FindByHash(bg, "hash-bob", shared.ScopedTo(bob))
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.NotNil(t, stored.ReplacedByID)
		assert.Equal(t, firstID, *stored.ReplacedByID)
	})
}
