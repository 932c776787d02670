package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningAlgorithm is the only algorithm tokens are signed or accepted with
const SigningAlgorithm = "HS512"

// Registered claim names the authority owns. Caller claims with these names
// are overwritten by Issue.
const (
	ClaimIssuer    = "iss"
	ClaimAudience  = "aud"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
)

var (
	ErrEmptySigningKey = errors.New("signing key is empty")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrRevokedToken    = errors.New("token has been revoked")
)

// Issue signs claims with HS512, binding them to issuer, audience and an
// expiry instant.
func Issue(claims map[string]any, signingKey, issuer, audience string, expiresAt time.Time) (string, error) {
	return issueAt(claims, signingKey, issuer, audience, time.Now(), expiresAt)
}

func issueAt(claims map[string]any, signingKey, issuer, audience string, issuedAt, expiresAt time.Time) (string, error) {
	if signingKey == "" {
		return "", ErrEmptySigningKey
	}
	mc := make(jwt.MapClaims, len(claims)+4)
	for k, v := range claims {
		mc[k] = v
	}
	mc[ClaimIssuer] = issuer
	mc[ClaimAudience] = audience
	mc[ClaimExpiresAt] = jwt.NewNumericDate(expiresAt)
	mc[ClaimIssuedAt] = jwt.NewNumericDate(issuedAt)

	token := jwt.NewWithClaims(jwt.GetSigningMethod(SigningAlgorithm), mc)
	return token.SignedString([]byte(signingKey))
}

// Validate reports whether token carries a valid HS512 signature under
// signingKey and names the expected issuer and audience.
//
// Expiry is not checked here. Callers that authenticate requests use
// ParseClaims and compare "exp" themselves.
func Validate(token, signingKey, issuer, audience string) bool {
	_, ok := ParseClaims(token, signingKey, issuer, audience)
	return ok
}

// ParseClaims performs the checks of Validate and returns the claims.
func ParseClaims(token, signingKey, issuer, audience string) (jwt.MapClaims, bool) {
	if token == "" || signingKey == "" {
		return nil, false
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{SigningAlgorithm}),
		jwt.WithoutClaimsValidation(),
	)
	claims := jwt.MapClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(signingKey), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}

	iss, err := claims.GetIssuer()
	if err != nil || iss != issuer {
		return nil, false
	}
	aud, err := claims.GetAudience()
	if err != nil || !containsString(aud, audience) {
		return nil, false
	}
	return claims, true
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
