package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	FirstName    string    `gorm:"type:varchar(100);not null;default:''"`
	LastName     string    `gorm:"type:varchar(100);not null;default:''"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	AuditModel
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) GetID() uuid.UUID   { return m.ID }
func (m *UserModel) SetID(id uuid.UUID) { m.ID = id }

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:           m.ID,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		AuditMeta:    m.AuditModel.ToDomain(),
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		AuditModel:   AuditFromDomain(u.AuditMeta),
	}
}

// RoleModel is the persistence model for the Role domain entity.
type RoleModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(100);not null"`
	NormalizedName string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_normalized_name"`
	AuditModel
}

func (RoleModel) TableName() string { return "roles" }

func (m *RoleModel) GetID() uuid.UUID   { return m.ID }
func (m *RoleModel) SetID(id uuid.UUID) { m.ID = id }

func (m *RoleModel) ToDomain() *identity.Role {
	return &identity.Role{
		ID:             m.ID,
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		AuditMeta:      m.AuditModel.ToDomain(),
	}
}

func RoleModelFromDomain(r *identity.Role) *RoleModel {
	return &RoleModel{
		ID:             r.ID,
		Name:           r.Name,
		NormalizedName: r.NormalizedName,
		AuditModel:     AuditFromDomain(r.AuditMeta),
	}
}

// UserRoleModel is the persistence model for the user/role link.
type UserRoleModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role,priority:1"`
	RoleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role,priority:2;index"`
	AuditModel
}

func (UserRoleModel) TableName() string { return "user_roles" }

func (m *UserRoleModel) GetID() uuid.UUID   { return m.ID }
func (m *UserRoleModel) SetID(id uuid.UUID) { m.ID = id }

func (m *UserRoleModel) ToDomain() *identity.UserRole {
	return &identity.UserRole{
		ID:        m.ID,
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		AuditMeta: m.AuditModel.ToDomain(),
	}
}

func UserRoleModelFromDomain(ur *identity.UserRole) *UserRoleModel {
	return &UserRoleModel{
		ID:         ur.ID,
		UserID:     ur.UserID,
		RoleID:     ur.RoleID,
		AuditModel: AuditFromDomain(ur.AuditMeta),
	}
}

// RefreshTokenModel is the persistence model for refresh token records.
type RefreshTokenModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	TokenHash     string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_refresh_tokens_hash"`
	ExpiresAt     time.Time  `gorm:"not null;index"`
	RevokedAt     *time.Time `gorm:"index"`
	RevokedReason string     `gorm:"type:varchar(50);not null;default:''"`
	ReplacedByID  *uuid.UUID `gorm:"type:uuid"`
	AuditModel
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }

func (m *RefreshTokenModel) GetID() uuid.UUID       { return m.ID }
func (m *RefreshTokenModel) SetID(id uuid.UUID)     { m.ID = id }
func (m *RefreshTokenModel) GetUserID() uuid.UUID   { return m.UserID }
func (m *RefreshTokenModel) SetUserID(id uuid.UUID) { m.UserID = id }

// UpdateGuard keeps revoked records write-once: whoever revokes first wins.
func (m *RefreshTokenModel) UpdateGuard() string { return "revoked_at IS NULL" }

func (m *RefreshTokenModel) ToDomain() *identity.RefreshToken {
	return &identity.RefreshToken{
		ID:            m.ID,
		UserID:        m.UserID,
		TokenHash:     m.TokenHash,
		ExpiresAt:     m.ExpiresAt,
		RevokedAt:     m.RevokedAt,
		RevokedReason: m.RevokedReason,
		ReplacedByID:  m.ReplacedByID,
		AuditMeta:     m.AuditModel.ToDomain(),
	}
}

func RefreshTokenModelFromDomain(t *identity.RefreshToken) *RefreshTokenModel {
	return &RefreshTokenModel{
		ID:            t.ID,
		UserID:        t.UserID,
		TokenHash:     t.TokenHash,
		ExpiresAt:     t.ExpiresAt,
		RevokedAt:     t.RevokedAt,
		RevokedReason: t.RevokedReason,
		ReplacedByID:  t.ReplacedByID,
		AuditModel:    AuditFromDomain(t.AuditMeta),
	}
}
