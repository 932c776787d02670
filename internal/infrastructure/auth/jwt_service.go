package auth

import (
	"crypto/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stockroom/backend/internal/infrastructure/config"
)

// Access token claim names beyond the registered ones
const (
	ClaimSubject = "sub"
	ClaimTokenID = "jti"
	ClaimEmail   = "email"
	ClaimName    = "name"
	ClaimRoles   = "roles"
)

// AccessTokenInput describes the user an access token is issued for
type AccessTokenInput struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Roles  []string
}

// AccessToken is a signed access token and the facts needed to revoke it
type AccessToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// RefreshTokenIssue is a fresh opaque refresh token. Value goes to the
// client; Hash is what gets stored.
type RefreshTokenIssue struct {
	Value     string
	Hash      string
	ExpiresAt time.Time
}

// Claims are the parsed claims of an access token
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Roles     []string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTService issues and parses the tokens of the configured authority
type JWTService struct {
	signingKey        string
	issuer            string
	audience          string
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	clock             func() time.Time
}

// JWTServiceOption configures a JWTService
type JWTServiceOption func(*JWTService)

// WithClock replaces time.Now
func WithClock(clock func() time.Time) JWTServiceOption {
	return func(s *JWTService) {
		s.clock = clock
	}
}

// NewJWTService creates a JWT service from configuration
func NewJWTService(cfg config.JWTConfig, opts ...JWTServiceOption) *JWTService {
	s := &JWTService{
		signingKey:        cfg.SigningKey,
		issuer:            cfg.Issuer,
		audience:          cfg.Audience,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		clock:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueAccessToken signs an access token for a user. The jti is a ULID so
// revocation entries sort by issue time.
func (s *JWTService) IssueAccessToken(in AccessTokenInput) (*AccessToken, error) {
	issuedAt := s.clock()
	expiresAt := issuedAt.Add(s.accessExpiration)
	jti := ulid.MustNew(ulid.Timestamp(issuedAt), rand.Reader).String()

	roles := in.Roles
	if roles == nil {
		roles = []string{}
	}
	token, err := issueAt(map[string]any{
		ClaimSubject: in.UserID.String(),
		ClaimTokenID: jti,
		ClaimEmail:   in.Email,
		ClaimName:    in.Name,
		ClaimRoles:   roles,
	}, s.signingKey, s.issuer, s.audience, issuedAt, expiresAt)
	if err != nil {
		return nil, err
	}
	return &AccessToken{Token: token, JTI: jti, ExpiresAt: expiresAt}, nil
}

// NewRefreshToken creates an opaque refresh token valid for the configured lifetime
func (s *JWTService) NewRefreshToken() (*RefreshTokenIssue, error) {
	value, err := NewRefreshTokenValue()
	if err != nil {
		return nil, err
	}
	return &RefreshTokenIssue{
		Value:     value,
		Hash:      HashRefreshToken(value),
		ExpiresAt: s.clock().Add(s.refreshExpiration).UTC(),
	}, nil
}

// ParseAccessToken checks signature, issuer, audience and expiry, and
// returns the claims. Revocation is the caller's concern.
func (s *JWTService) ParseAccessToken(token string) (*Claims, error) {
	mc, ok := ParseClaims(token, s.signingKey, s.issuer, s.audience)
	if !ok {
		return nil, ErrInvalidToken
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	if !s.clock().Before(exp.Time) {
		return nil, ErrExpiredToken
	}

	sub, err := mc.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID:    userID,
		Email:     stringClaim(mc, ClaimEmail),
		Name:      stringClaim(mc, ClaimName),
		Roles:     stringsClaim(mc, ClaimRoles),
		JTI:       stringClaim(mc, ClaimTokenID),
		ExpiresAt: exp.Time,
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	return claims, nil
}

// AccessTokenExpiration returns the access token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// RefreshTokenExpiration returns the refresh token lifetime
func (s *JWTService) RefreshTokenExpiration() time.Duration {
	return s.refreshExpiration
}

func stringClaim(mc jwt.MapClaims, name string) string {
	v, _ := mc[name].(string)
	return v
}

func stringsClaim(mc jwt.MapClaims, name string) []string {
	raw, _ := mc[name].([]any)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
