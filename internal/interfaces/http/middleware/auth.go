package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	PrincipalKey  = "auth_principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator resolves an access token to the caller it identifies.
// identity.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*identity.Principal, error)
}

// AuthConfig holds configuration for the bearer auth middleware
type AuthConfig struct {
	Authenticator Authenticator
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultAuthConfig returns a config that leaves health and metrics open
func DefaultAuthConfig(authenticator Authenticator) AuthConfig {
	return AuthConfig{
		Authenticator: authenticator,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
	}
}

// BearerAuth requires a valid access token. The principal is stored on the
// gin context, and its id and email go on the request context so audit
// stamps and log lines name the caller.
func BearerAuth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path, cfg) {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		principal, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, shared.ErrUnauthorized) {
				log.Error("Authentication failed", zap.Error(err))
				status, resp := dto.FromError(err)
				c.AbortWithStatusJSON(status, resp)
				return
			}
			abortUnauthorized(c, log, err, "Token rejected")
			return
		}

		c.Set(PrincipalKey, principal)
		ctx := logger.WithUserID(c.Request.Context(), principal.UserID.String())
		ctx = logger.WithUsername(ctx, principal.Email)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("Authenticated request",
			zap.String("user_id", principal.UserID.String()),
			zap.String("path", c.Request.URL.Path),
		)
		c.Next()
	}
}

// RequireRole rejects principals without role. It must run after BearerAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			status := dto.GetHTTPStatus(dto.ErrCodeUnauthorized)
			c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !principal.HasRole(role) {
			status := dto.GetHTTPStatus(dto.ErrCodeForbidden)
			c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.ErrCodeForbidden, "Missing role "+role))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}

func skipped(path string, cfg AuthConfig) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("Authentication rejected",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	text := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, text = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrRevokedToken):
		code, text = dto.ErrCodeTokenInvalid, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken):
		code, text = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, text))
}
