package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testJWTConfig = config.JWTConfig{
	SigningKey:             "identity-service-test-signing-key-0123456789",
	Issuer:                 "stockroom-test",
	Audience:               "stockroom-clients",
	AccessTokenExpiration:  15 * time.Minute,
	RefreshTokenExpiration: 24 * time.Hour,
}

// newTestDatabase opens a migrated in-memory sqlite database. It has a
// single connection, so only one unit of work may be open at a time.
func newTestDatabase(t *testing.T) *persistence.Database {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(context.Background()))
	return db
}

func uowFactory(db *persistence.Database) UnitOfWorkFactory {
	return func(ctx context.Context) (UnitOfWork, error) {
		uow, err := db.UnitOfWork(ctx)
		if err != nil {
			return nil, err
		}
		return uow, nil
	}
}

type fixture struct {
	db      *persistence.Database
	open    UnitOfWorkFactory
	tokens  *auth.JWTService
	revoked *auth.MemoryRevocationList
	auth    *AuthService
	users   *UserService
	roles   *RoleService
}

func newFixture(t *testing.T, opts ...AuthServiceOption) *fixture {
	t.Helper()
	db := newTestDatabase(t)
	f := &fixture{
		db:      db,
		open:    uowFactory(db),
		tokens:  auth.NewJWTService(testJWTConfig),
		revoked: auth.NewMemoryRevocationList(),
	}
	logger := zap.NewNop()
	f.auth = NewAuthService(f.open, f.tokens, f.revoked, logger, opts...)
	f.users = NewUserService(f.open, f.revoked, testJWTConfig.AccessTokenExpiration, logger)
	f.roles = NewRoleService(f.open, logger)
	return f
}

func (f *fixture) register(t *testing.T, email string) *UserInfo {
	t.Helper()
	info, err := f.users.Register(context.Background(), RegisterInput{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	require.NoError(t, err)
	return info
}

func (f *fixture) login(t *testing.T, email string) *TokenResult {
	t.Helper()
	res, err := f.auth.Login(context.Background(), LoginInput{Email: email, Password: "password123"})
	require.NoError(t, err)
	return res
}

// refreshRecord loads a stored refresh token by its plain value, bypassing scope
func (f *fixture) refreshRecord(t *testing.T, value string) *identity.RefreshToken {
	t.Helper()
	uow, err := f.open(context.Background())
	require.NoError(t, err)
	defer uow.Close()
	rec, err := uow.RefreshTokens().FindByHash(context.Background(), auth.HashRefreshToken(value), shared.Unscoped[uuid.UUID]())
	require.NoError(t, err)
	return rec
}
