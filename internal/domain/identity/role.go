package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Role is a named permission group.
type Role struct {
	ID             uuid.UUID
	Name           string
	NormalizedName string
	shared.AuditMeta
}

func (r *Role) GetID() uuid.UUID   { return r.ID }
func (r *Role) SetID(id uuid.UUID) { r.ID = id }

// NewRole creates a role. A nil id is replaced by a generated one.
func NewRole(id uuid.UUID, name string) (*Role, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	r := &Role{ID: id}
	if err := r.Rename(name); err != nil {
		return nil, err
	}
	return r, nil
}

// Rename changes the display name and the lookup key with it
func (r *Role) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	r.Name = name
	r.NormalizedName = NormalizeRoleName(name)
	return nil
}

// NormalizeRoleName is the lookup key for role names.
func NormalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// UserRole links a user to a role. It carries nothing beyond the two keys;
// ID exists only so the link can flow through the generic repository.
type UserRole struct {
	ID     uuid.UUID
	UserID uuid.UUID
	RoleID uuid.UUID
	shared.AuditMeta
}

func (ur *UserRole) GetID() uuid.UUID   { return ur.ID }
func (ur *UserRole) SetID(id uuid.UUID) { ur.ID = id }

// NewUserRole builds a link between a user and a role.
func NewUserRole(userID, roleID uuid.UUID) *UserRole {
	return &UserRole{
		ID:     uuid.New(),
		UserID: userID,
		RoleID: roleID,
	}
}
