package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Revocation reasons recorded on refresh tokens.
const (
	RevokedReasonRotated = "rotated"
	RevokedReasonLogout  = "logout"
	RevokedReasonAdmin   = "admin"
)

// RefreshToken is a long-lived credential owned by one user. Only the hash of
// the token value is stored. Records are never rotated in place: rotation
// revokes this record and points ReplacedByID at its successor.
type RefreshToken struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TokenHash     string
	ExpiresAt     time.Time
	RevokedAt     *time.Time
	RevokedReason string
	ReplacedByID  *uuid.UUID
	shared.AuditMeta
}

func (t *RefreshToken) GetID() uuid.UUID       { return t.ID }
func (t *RefreshToken) SetID(id uuid.UUID)     { t.ID = id }
func (t *RefreshToken) GetUserID() uuid.UUID   { return t.UserID }
func (t *RefreshToken) SetUserID(id uuid.UUID) { t.UserID = id }

// NewRefreshToken creates an active token record for userID.
func NewRefreshToken(userID uuid.UUID, tokenHash string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
}

// IsExpired reports whether the token expired at or before now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevoked reports whether the token was revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token can still be exchanged.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}

// Revoke marks the token unusable. Revoking twice keeps the first stamp.
func (t *RefreshToken) Revoke(now time.Time, reason string, replacedBy *uuid.UUID) {
	if t.IsRevoked() {
		return
	}
	t.RevokedAt = &now
	t.RevokedReason = reason
	t.ReplacedByID = replacedBy
}
