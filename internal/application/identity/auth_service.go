package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	openUoW UnitOfWorkFactory
	tokens  *auth.JWTService
	revoked auth.TokenRevocationList
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// AuthServiceOption configures an AuthService
type AuthServiceOption func(*AuthService)

// WithAuthMetrics counts operation outcomes on m
func WithAuthMetrics(m *metrics.Metrics) AuthServiceOption {
	return func(s *AuthService) {
		s.metrics = m
	}
}

// WithAuthClock replaces the clock used for expiry and audit stamps
func WithAuthClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(
	openUoW UnitOfWorkFactory,
	tokens *auth.JWTService,
	revoked auth.TokenRevocationList,
	logger *zap.Logger,
	opts ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		openUoW: openUoW,
		tokens:  tokens,
		revoked: revoked,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the password and issues an access token plus a refresh token
// owned by the user. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *TokenResult, err error) {
	defer func() { s.observe(metrics.OpLogin, err) }()

	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}

	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*TokenResult, error) {
		user, err := uow.Users().FindByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if user == nil || !user.VerifyPassword(input.Password) {
			s.logger.Warn("Login rejected", zap.String("email", identity.NormalizeEmail(input.Email)))
			return nil, shared.ErrInvalidCredentials
		}

		result, _, err := s.issue(ctx, uow, user)
		if err != nil {
			return nil, err
		}
		s.logger.Info("User logged in",
			zap.String("user_id", user.ID.String()),
			zap.String("jti", result.AccessTokenJTI))
		return result, nil
	})
}

// Refresh rotates a refresh token. The presented token is looked up under
// the presenting user's scope; absent, foreign, revoked and expired tokens
// all yield ErrRefreshTokenNotFound. The old record is revoked and points at
// its successor, and both writes commit together.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (result *TokenResult, err error) {
	defer func() { s.observe(metrics.OpRefresh, err) }()

	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}

	hash := auth.HashRefreshToken(input.RefreshToken)
	scope := shared.ScopedTo(input.UserID)

	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*TokenResult, error) {
		current, err := uow.RefreshTokens().FindByHash(ctx, hash, scope)
		if err != nil {
			return nil, err
		}
		if current == nil || !current.IsActive(s.now()) {
			return nil, shared.ErrRefreshTokenNotFound
		}

		user, err := uow.Users().Find(ctx, input.UserID, shared.Unscoped[uuid.UUID]())
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, shared.ErrRefreshTokenNotFound
		}

		result, next, err := s.issue(ctx, uow, user)
		if err != nil {
			return nil, err
		}

		current.Revoke(s.now(), identity.RevokedReasonRotated, &next.ID)
		updated, err := refreshTokens(uow, s.serviceOptions(user)...).Update(ctx, current, scope)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, shared.ErrRefreshTokenNotFound
		}

		s.logger.Info("Refresh token rotated",
			zap.String("user_id", user.ID.String()),
			zap.String("replaced", current.ID.String()),
			zap.String("by", next.ID.String()))
		return result, nil
	})
}

// Logout revokes the presented refresh token and puts the access token on
// the revocation list. A refresh token that is unknown or already revoked is
// not an error.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) (err error) {
	defer func() { s.observe(metrics.OpLogout, err) }()

	if err := appshared.ValidateInput(input); err != nil {
		return err
	}

	if input.RefreshToken != "" {
		scope := shared.ScopedTo(input.UserID)
		hash := auth.HashRefreshToken(input.RefreshToken)
		_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
			token, err := uow.RefreshTokens().FindByHash(ctx, hash, scope)
			if err != nil || token == nil || token.IsRevoked() {
				return false, err
			}
			token.Revoke(s.now(), identity.RevokedReasonLogout, nil)
			caller := appshared.WithCaller(appshared.ContextCaller{})
			_, err = refreshTokens(uow, caller, appshared.WithClock(s.now)).Update(ctx, token, scope)
			return err == nil, err
		})
		if err != nil {
			return err
		}
	}

	if input.AccessTokenJTI != "" {
		if err := s.revoked.Revoke(ctx, input.AccessTokenJTI, input.AccessTokenExpiresAt); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Authenticate resolves an access token to its principal. Unlike
// auth.Validate it rejects expired tokens, and it consults the revocation
// list. Every rejection wraps ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (principal *Principal, err error) {
	defer func() { s.observe(metrics.OpAuthenticate, err) }()

	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrUnauthorized, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: %w", shared.ErrUnauthorized, auth.ErrRevokedToken)
	}

	revoked, err = s.revoked.IsUserRevoked(ctx, claims.UserID.String(), claims.IssuedAt)
	if err != nil {
		return nil, fmt.Errorf("check user revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: %w", shared.ErrUnauthorized, auth.ErrRevokedToken)
	}

	return &Principal{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Roles:     claims.Roles,
		TokenID:   claims.JTI,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// PurgeExpiredRefreshTokens deletes refresh token records that expired before
// the given instant, revoked or not.
func (s *AuthService) PurgeExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	n, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (int64, error) {
		return uow.RefreshTokens().DeleteExpired(ctx, before)
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Purged expired refresh tokens", zap.Int64("count", n))
	}
	return n, nil
}

// issue signs an access token and stores a new refresh token record for user
func (s *AuthService) issue(ctx context.Context, uow UnitOfWork, user *identity.User) (*TokenResult, *identity.RefreshToken, error) {
	userRoles, err := uow.UserRoles().RolesForUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	names := roleNames(userRoles)

	access, err := s.tokens.IssueAccessToken(auth.AccessTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
		Roles:  names,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("create refresh token: %w", err)
	}
	record := identity.NewRefreshToken(user.ID, refresh.Hash, refresh.ExpiresAt)
	if err := refreshTokens(uow, s.serviceOptions(user)...).Add(ctx, record, shared.ScopedTo(user.ID)); err != nil {
		return nil, nil, err
	}

	return &TokenResult{
		AccessToken:           access.Token,
		AccessTokenJTI:        access.JTI,
		AccessTokenExpiresAt:  access.ExpiresAt,
		RefreshToken:          refresh.Value,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
		TokenType:             TokenType,
		User:                  toUserInfo(user, userRoles),
	}, record, nil
}

// serviceOptions stamps token records with the user they belong to; there is
// no authenticated caller on the context during login or refresh.
func (s *AuthService) serviceOptions(user *identity.User) []appshared.ServiceOption {
	return []appshared.ServiceOption{
		appshared.WithCaller(appshared.FixedCaller(user.Email)),
		appshared.WithClock(s.now),
	}
}

func (s *AuthService) observe(op string, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveAuth(op, metrics.OutcomeSuccess)
	case errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrRefreshTokenNotFound),
		errors.Is(err, shared.ErrUnauthorized),
		errors.Is(err, shared.ErrInvalidInput):
		s.metrics.ObserveAuth(op, metrics.OutcomeDenied)
	default:
		s.metrics.ObserveAuth(op, metrics.OutcomeError)
	}
}
