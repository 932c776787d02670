package inventory

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9+\-() ]{5,30}$`)
)

// Supplier is a vendor products are bought from
type Supplier struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Name    string
	Email   string
	Phone   string
	Address string
	shared.AuditMeta
}

func (s *Supplier) GetID() uuid.UUID       { return s.ID }
func (s *Supplier) SetID(id uuid.UUID)     { s.ID = id }
func (s *Supplier) GetUserID() uuid.UUID   { return s.UserID }
func (s *Supplier) SetUserID(id uuid.UUID) { s.UserID = id }

// NewSupplier creates a supplier for userID
func NewSupplier(userID uuid.UUID, name string) (*Supplier, error) {
	s := &Supplier{ID: uuid.New(), UserID: userID}
	if err := s.Rename(name); err != nil {
		return nil, err
	}
	return s, nil
}

// Rename changes the supplier name
func (s *Supplier) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName("supplier", name); err != nil {
		return err
	}
	s.Name = name
	return nil
}

// SetContact updates the contact fields. Empty values clear them.
func (s *Supplier) SetContact(email, phone, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if phone != "" && !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone format")
	}
	s.Email = email
	s.Phone = phone
	s.Address = strings.TrimSpace(address)
	return nil
}
