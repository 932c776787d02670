package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRefreshTokenRepository implements identity.RefreshTokenRepository using GORM
type GormRefreshTokenRepository struct {
	*MappedRepository[identity.RefreshToken, models.RefreshTokenModel, *models.RefreshTokenModel, uuid.UUID]
}

var _ identity.RefreshTokenRepository = (*GormRefreshTokenRepository)(nil)

// NewGormRefreshTokenRepository creates a new GormRefreshTokenRepository
func NewGormRefreshTokenRepository(db *gorm.DB) *GormRefreshTokenRepository {
	return newGormRefreshTokenRepository(db, nil)
}

func newGormRefreshTokenRepository(db *gorm.DB, tracker *changeTracker) *GormRefreshTokenRepository {
	base := newGormRepository[models.RefreshTokenModel, *models.RefreshTokenModel, uuid.UUID](db, tracker)
	return &GormRefreshTokenRepository{NewMappedRepository(base, models.RefreshTokenMapper)}
}

// FindByHash returns the visible token with the hash, or nil
func (r *GormRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string, scope shared.Scope[uuid.UUID]) (*identity.RefreshToken, error) {
	if tokenHash == "" {
		return nil, nil
	}
	m, err := r.Models().FindOne(ctx, scope, "token_hash = ?", tokenHash)
	if err != nil {
		return nil, err
	}
	return models.RefreshTokenMapper.ToUpper(m), nil
}

// RevokeAllForUser revokes every unrevoked token of userID
func (r *GormRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason string, at time.Time) (int64, error) {
	return r.Models().UpdateWhere(ctx, shared.ScopedTo(userID),
		map[string]any{"revoked_at": at.UTC(), "revoked_reason": reason},
		"revoked_at IS NULL")
}

// DeleteExpired removes tokens that expired before the given instant.
// Times are compared in UTC; sqlite compares them as text.
func (r *GormRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.Models().DeleteWhere(ctx, shared.Unscoped[uuid.UUID](), "expires_at < ?", before.UTC())
}
