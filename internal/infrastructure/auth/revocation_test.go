package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryRevocationList()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	t.Run("already expired tokens are not stored", func(t *testing.T) {
		require.NoError(t, list.Revoke(ctx, "jti-old", time.Now().Add(-time.Second)))
		revoked, err := list.IsRevoked(ctx, "jti-old")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("entries lapse with the token", func(t *testing.T) {
		require.NoError(t, list.Revoke(ctx, "jti-short", time.Now().Add(20*time.Millisecond)))
		time.Sleep(40 * time.Millisecond)
		revoked, err := list.IsRevoked(ctx, "jti-short")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestMemoryRevocationList_User(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryRevocationList()
	at := time.Now()

	revoked, err := list.IsUserRevoked(ctx, "user-1", at.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.RevokeUser(ctx, "user-1", at, time.Hour))

	revoked, err = list.IsUserRevoked(ctx, "user-1", at.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsUserRevoked(ctx, "user-1", at.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued afterwards stay valid")

	revoked, err = list.IsUserRevoked(ctx, "user-2", at.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	list := NewRedisRevocationList(client)
	defer list.Close()

	ctx := context.Background()
	_, err := list.IsRevoked(ctx, "jti")
	assert.ErrorContains(t, err, "failed to check token revocation")
	assert.ErrorContains(t, list.Revoke(ctx, "jti", time.Now().Add(time.Hour)), "failed to revoke token")
	assert.NoError(t, list.Revoke(ctx, "jti", time.Now().Add(-time.Hour)), "expired tokens never reach redis")
	assert.Equal(t, "stockroom:revoked:jti:abc", list.jtiKey("abc"))
	assert.Equal(t, "stockroom:revoked:user:u1", list.userKey("u1"))
}

func TestNewRevocationList(t *testing.T) {
	ctx := context.Background()

	list, err := NewRevocationList(ctx, &config.Config{Auth: config.AuthConfig{RevocationStore: "memory"}})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRevocationList{}, list)

	_, err = NewRevocationList(ctx, &config.Config{Auth: config.AuthConfig{RevocationStore: "etcd"}})
	assert.Error(t, err)

	_, err = NewRevocationList(ctx, &config.Config{
		Auth:  config.AuthConfig{RevocationStore: "redis"},
		Redis: config.RedisConfig{Host: "127.0.0.1", Port: 1},
	})
	assert.ErrorContains(t, err, "failed to connect to redis")
}
