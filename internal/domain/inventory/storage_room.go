package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// StorageRoom is a place where products are kept
type StorageRoom struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	shared.AuditMeta
}

func (r *StorageRoom) GetID() uuid.UUID       { return r.ID }
func (r *StorageRoom) SetID(id uuid.UUID)     { r.ID = id }
func (r *StorageRoom) GetUserID() uuid.UUID   { return r.UserID }
func (r *StorageRoom) SetUserID(id uuid.UUID) { r.UserID = id }

// NewStorageRoom creates a storage room for userID
func NewStorageRoom(userID uuid.UUID, name, description string) (*StorageRoom, error) {
	r := &StorageRoom{ID: uuid.New(), UserID: userID}
	if err := r.Update(name, description); err != nil {
		return nil, err
	}
	return r, nil
}

// Update changes the descriptive fields
func (r *StorageRoom) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName("storage room", name); err != nil {
		return err
	}
	r.Name = name
	r.Description = strings.TrimSpace(description)
	return nil
}
