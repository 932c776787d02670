package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// ProductInput carries the editable product fields. Quantity is not among
// them: stock only moves through StockService.Record.
type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=200"`
	SKU           string          `json:"sku" validate:"required,max=50"`
	Unit          string          `json:"unit" validate:"required,max=20"`
	MinQuantity   decimal.Decimal `json:"min_quantity"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	StorageRoomID *uuid.UUID      `json:"storage_room_id"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinQuantity   decimal.Decimal `json:"min_quantity"`
	IsLowStock    bool            `json:"is_low_stock"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	StorageRoomID *uuid.UUID      `json:"storage_room_id,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	ChangedBy     *string         `json:"changed_by,omitempty"`
	ChangedAt     *time.Time      `json:"changed_at,omitempty"`
}

// StorageRoomInput carries the editable storage room fields
type StorageRoomInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

// StorageRoomResponse represents a storage room in API responses
type StorageRoomResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SupplierInput carries the editable supplier fields
type SupplierInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=200"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address" validate:"max=500"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordStockInput describes one stock movement. Unit defaults to the
// product's unit and PerformedAt to now.
type RecordStockInput struct {
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	Kind        string          `json:"kind" validate:"required,oneof=in out adjust"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" validate:"max=20"`
	Note        string          `json:"note" validate:"max=500"`
	PerformedAt time.Time       `json:"performed_at"`
}

// StockActionResponse represents a stock journal entry
type StockActionResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Note        string          `json:"note,omitempty"`
	PerformedAt time.Time       `json:"performed_at"`
	CreatedBy   string          `json:"created_by"`
}

// RecordStockResult is the journal entry plus the product after it was applied
type RecordStockResult struct {
	Action  StockActionResponse `json:"action"`
	Product ProductResponse     `json:"product"`
}

func toProductResponse(p *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Unit:          p.Unit,
		Quantity:      p.Quantity,
		MinQuantity:   p.MinQuantity,
		IsLowStock:    p.IsLowStock(),
		SupplierID:    p.SupplierID,
		StorageRoomID: p.StorageRoomID,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
		ChangedBy:     p.ChangedBy,
		ChangedAt:     p.ChangedAt,
	}
}

func toStorageRoomResponse(r *inventory.StorageRoom) StorageRoomResponse {
	return StorageRoomResponse{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt}
}

func toSupplierResponse(s *inventory.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

func toStockActionResponse(a *inventory.StockAction) StockActionResponse {
	return StockActionResponse{
		ID:          a.ID,
		ProductID:   a.ProductID,
		Kind:        string(a.Kind),
		Quantity:    a.Quantity,
		Unit:        a.Unit,
		Note:        a.Note,
		PerformedAt: a.PerformedAt,
		CreatedBy:   a.CreatedBy,
	}
}
