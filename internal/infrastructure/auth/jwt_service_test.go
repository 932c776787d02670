package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(clock func() time.Time) *JWTService {
	return NewJWTService(config.JWTConfig{
		SigningKey:             testKey,
		Issuer:                 testIssuer,
		Audience:               testAudience,
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
	}, WithClock(clock))
}

func TestJWTService_AccessToken(t *testing.T) {
	current := time.Now().Truncate(time.Second)
	svc := newTestJWTService(func() time.Time { return current })
	userID := uuid.New()

	issued, err := svc.IssueAccessToken(AccessTokenInput{
		UserID: userID,
		Email:  "clerk@example.com",
		Name:   "Stock Clerk",
		Roles:  []string{"clerk", "admin"},
	})
	require.NoError(t, err)
	assert.Equal(t, current.Add(15*time.Minute), issued.ExpiresAt)
	assert.Len(t, issued.JTI, 26, "ULID")
	assert.True(t, Validate(issued.Token, testKey, testIssuer, testAudience))

	claims, err := svc.ParseAccessToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "clerk@example.com", claims.Email)
	assert.Equal(t, "Stock Clerk", claims.Name)
	assert.Equal(t, []string{"clerk", "admin"}, claims.Roles)
	assert.Equal(t, issued.JTI, claims.JTI)
	assert.True(t, claims.IssuedAt.Equal(current))

	t.Run("expired", func(t *testing.T) {
		current = current.Add(16 * time.Minute)
		_, err := svc.ParseAccessToken(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("foreign authority", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{SigningKey: "another-key", Issuer: testIssuer, Audience: testAudience})
		_, err := other.ParseAccessToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_ParseRejectsTokensWithoutSubject(t *testing.T) {
	svc := newTestJWTService(time.Now)
	token, err := Issue(map[string]any{"sub": "not-a-uuid"}, testKey, testIssuer, testAudience, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_NewRefreshToken(t *testing.T) {
	current := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(func() time.Time { return current })

	rt, err := svc.NewRefreshToken()
	require.NoError(t, err)
	assert.Equal(t, HashRefreshToken(rt.Value), rt.Hash)
	assert.Equal(t, current.Add(24*time.Hour), rt.ExpiresAt)
	assert.Equal(t, 15*time.Minute, svc.AccessTokenExpiration())
	assert.Equal(t, 24*time.Hour, svc.RefreshTokenExpiration())
}
