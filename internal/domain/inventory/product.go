package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// Product is a stock-keeping unit owned by one user. Quantity is expressed in
// the product's own Unit.
type Product struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	SKU           string
	Unit          string
	Quantity      decimal.Decimal
	MinQuantity   decimal.Decimal
	SupplierID    *uuid.UUID
	StorageRoomID *uuid.UUID
	// Version is the optimistic lock counter; every stored update bumps it
	Version       int64
	shared.AuditMeta
}

func (p *Product) GetID() uuid.UUID       { return p.ID }
func (p *Product) SetID(id uuid.UUID)     { p.ID = id }
func (p *Product) GetUserID() uuid.UUID   { return p.UserID }
func (p *Product) SetUserID(id uuid.UUID) { p.UserID = id }

// NewProduct creates an empty product for userID
func NewProduct(userID uuid.UUID, name, sku, unit string) (*Product, error) {
	p := &Product{
		ID:          uuid.New(),
		UserID:      userID,
		Quantity:    decimal.Zero,
		MinQuantity: decimal.Zero,
		Version:     1,
	}
	if err := p.Rename(name, sku); err != nil {
		return nil, err
	}
	if err := p.SetUnit(unit); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename updates name and SKU. The SKU is stored upper-case.
func (p *Product) Rename(name, sku string) error {
	name = strings.TrimSpace(name)
	if err := validateName("product", name); err != nil {
		return err
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := validateSKU(sku); err != nil {
		return err
	}
	p.Name = name
	p.SKU = sku
	return nil
}

// SetUnit changes the unit quantities are kept in. Existing stock is
// converted so the physical amount stays the same.
func (p *Product) SetUnit(unit string) error {
	unit = valueobject.NormalizeUnit(unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if p.Unit == "" || p.Unit == unit {
		p.Unit = unit
		return nil
	}
	qty, err := valueobject.Convert(p.Quantity, p.Unit, unit)
	if err != nil {
		return err
	}
	minQty, err := valueobject.Convert(p.MinQuantity, p.Unit, unit)
	if err != nil {
		return err
	}
	p.Unit = unit
	p.Quantity = qty
	p.MinQuantity = minQty
	return nil
}

// SetMinQuantity sets the low-stock threshold
func (p *Product) SetMinQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	p.MinQuantity = q
	return nil
}

// AssignSupplier links the product to a supplier; nil clears it
func (p *Product) AssignSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
}

// MoveTo places the product in a storage room; nil clears it
func (p *Product) MoveTo(storageRoomID *uuid.UUID) {
	p.StorageRoomID = storageRoomID
}

// ApplyDelta changes the quantity by delta, already expressed in p.Unit.
// The quantity never goes below zero.
func (p *Product) ApplyDelta(delta decimal.Decimal) error {
	next := p.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}
	p.Quantity = next
	return nil
}

// IsLowStock reports whether the quantity is at or below the threshold.
// A zero threshold disables the check.
func (p *Product) IsLowStock() bool {
	if p.MinQuantity.IsZero() {
		return false
	}
	return p.Quantity.LessThanOrEqual(p.MinQuantity)
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(kind, name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", strings.ToUpper(kind[:1])+kind[1:]+" name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", strings.ToUpper(kind[:1])+kind[1:]+" name cannot exceed 200 characters")
	}
	return nil
}
