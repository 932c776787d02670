package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
)

// TokenType is the scheme clients put in front of the access token
const TokenType = "Bearer"

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=72"`
}

// RefreshInput presents a refresh token on behalf of UserID
type RefreshInput struct {
	UserID       uuid.UUID `json:"user_id" validate:"required"`
	RefreshToken string    `json:"refresh_token" validate:"required"`
}

// LogoutInput names what to revoke. Both token fields are optional.
type LogoutInput struct {
	UserID               uuid.UUID `json:"user_id" validate:"required"`
	RefreshToken         string    `json:"refresh_token"`
	AccessTokenJTI       string    `json:"access_token_jti"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

// TokenResult is returned by Login and Refresh. RefreshToken is the plain
// value; it is never stored and cannot be recovered later.
type TokenResult struct {
	AccessToken           string
	AccessTokenJTI        string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information
type UserInfo struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Name      string
	Roles     []string
}

// Principal is the caller an access token identifies
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Roles     []string
	TokenID   string
	ExpiresAt time.Time
}

// HasRole reports whether the principal carries role, compared by normalized name
func (p *Principal) HasRole(role string) bool {
	want := identity.NormalizeRoleName(role)
	for _, r := range p.Roles {
		if identity.NormalizeRoleName(r) == want {
			return true
		}
	}
	return false
}

// RegisterInput contains the input for creating a user
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=200"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	OldPassword string    `json:"old_password" validate:"required"`
	NewPassword string    `json:"new_password" validate:"required,min=8,max=72"`
}

// RoleInfo describes a role
type RoleInfo struct {
	ID   uuid.UUID
	Name string
}

func toUserInfo(u *identity.User, roles []*identity.Role) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.FullName(),
		Roles:     roleNames(roles),
	}
}

func roleNames(roles []*identity.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}
