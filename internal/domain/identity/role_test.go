package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	t.Run("normalizes name for lookup", func(t *testing.T) {
		role, err := NewRole(uuid.Nil, " admin ")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, role.ID)
		assert.Equal(t, "admin", role.Name)
		assert.Equal(t, "ADMIN", role.NormalizedName)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewRole(uuid.Nil, "  ")
		assert.Error(t, err)
	})
}

func TestRole_Rename(t *testing.T) {
	role, err := NewRole(uuid.Nil, "clerk")
	require.NoError(t, err)

	require.NoError(t, role.Rename("Stock Clerk"))
	assert.Equal(t, "STOCK CLERK", role.NormalizedName)

	assert.Error(t, role.Rename(""))
	assert.Equal(t, "Stock Clerk", role.Name)
}

func TestNewUserRole(t *testing.T) {
	userID, roleID := uuid.New(), uuid.New()
	link := NewUserRole(userID, roleID)

	assert.NotEqual(t, uuid.Nil, link.ID)
	assert.Equal(t, userID, link.UserID)
	assert.Equal(t, roleID, link.RoleID)
}

func TestRefreshToken_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := NewRefreshToken(uuid.New(), "hash", now.Add(time.Hour))

	t.Run("active before expiry", func(t *testing.T) {
		assert.True(t, token.IsActive(now))
		assert.False(t, token.IsExpired(now.Add(59*time.Minute)))
	})

	t.Run("expired at the exact expiry instant", func(t *testing.T) {
		assert.True(t, token.IsExpired(now.Add(time.Hour)))
		assert.False(t, token.IsActive(now.Add(time.Hour)))
	})

	t.Run("revoke keeps the first stamp", func(t *testing.T) {
		next := uuid.New()
		token.Revoke(now, RevokedReasonRotated, &next)
		token.Revoke(now.Add(time.Minute), RevokedReasonLogout, nil)

		assert.True(t, token.IsRevoked())
		assert.False(t, token.IsActive(now))
		assert.Equal(t, now, *token.RevokedAt)
		assert.Equal(t, RevokedReasonRotated, token.RevokedReason)
		require.NotNil(t, token.ReplacedByID)
		assert.Equal(t, next, *token.ReplacedByID)
	})

	t.Run("owner is exposed through the ownable contract", func(t *testing.T) {
		owner, ok := shared.OwnedBy[uuid.UUID](token)
		assert.True(t, ok)
		assert.Equal(t, token.UserID, owner)
	})
}
