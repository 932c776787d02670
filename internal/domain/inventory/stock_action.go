package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// StockActionKind is the direction of a stock movement
type StockActionKind string

const (
	StockActionIn     StockActionKind = "in"
	StockActionOut    StockActionKind = "out"
	StockActionAdjust StockActionKind = "adjust"
)

// IsValid returns true if the kind is known
func (k StockActionKind) IsValid() bool {
	switch k {
	case StockActionIn, StockActionOut, StockActionAdjust:
		return true
	}
	return false
}

// StockAction is an immutable journal entry of one stock movement.
// Quantity is in the action's Unit, which may differ from the product's.
// In and out carry a positive quantity; adjust carries a signed correction.
type StockAction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.UUID
	Kind        StockActionKind
	Quantity    decimal.Decimal
	Unit        string
	Note        string
	PerformedAt time.Time
	shared.AuditMeta
}

func (a *StockAction) GetID() uuid.UUID       { return a.ID }
func (a *StockAction) SetID(id uuid.UUID)     { a.ID = id }
func (a *StockAction) GetUserID() uuid.UUID   { return a.UserID }
func (a *StockAction) SetUserID(id uuid.UUID) { a.UserID = id }

// NewStockAction builds a journal entry for productID
func NewStockAction(
	userID, productID uuid.UUID,
	kind StockActionKind,
	quantity decimal.Decimal,
	unit, note string,
	performedAt time.Time,
) (*StockAction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_STOCK_ACTION", "Invalid stock action kind")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if kind != StockActionAdjust && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	unit = valueobject.NormalizeUnit(unit)
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	return &StockAction{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   productID,
		Kind:        kind,
		Quantity:    quantity,
		Unit:        unit,
		Note:        strings.TrimSpace(note),
		PerformedAt: performedAt,
	}, nil
}

// Delta returns the signed change this action makes, in the action's unit
func (a *StockAction) Delta() decimal.Decimal {
	if a.Kind == StockActionOut {
		return a.Quantity.Neg()
	}
	return a.Quantity
}

// DeltaIn converts Delta into the given unit
func (a *StockAction) DeltaIn(unit string) (decimal.Decimal, error) {
	return valueobject.Convert(a.Delta(), a.Unit, unit)
}

// ApplyTo converts the movement to the product's unit and applies it
func (a *StockAction) ApplyTo(p *Product) error {
	if p.ID != a.ProductID {
		return shared.NewDomainError("INVALID_STOCK_ACTION", "Stock action belongs to another product")
	}
	delta, err := a.DeltaIn(p.Unit)
	if err != nil {
		return err
	}
	return p.ApplyDelta(delta)
}
