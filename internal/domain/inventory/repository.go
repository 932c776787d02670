package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	shared.Repository[Product, uuid.UUID]

	// FindBySKU returns nil, nil when no visible product has the SKU
	FindBySKU(ctx context.Context, sku string, scope shared.Scope[uuid.UUID]) (*Product, error)

	// FindLowStock returns visible products at or below their threshold
	FindLowStock(ctx context.Context, scope shared.Scope[uuid.UUID]) ([]*Product, error)
}

// StorageRoomRepository defines the interface for storage room persistence
type StorageRoomRepository interface {
	shared.Repository[StorageRoom, uuid.UUID]
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	shared.Repository[Supplier, uuid.UUID]
}

// StockActionRepository defines the interface for the stock journal
type StockActionRepository interface {
	shared.Repository[StockAction, uuid.UUID]

	// ForProduct lists a product's journal, oldest first
	ForProduct(ctx context.Context, productID uuid.UUID, scope shared.Scope[uuid.UUID]) ([]*StockAction, error)
}
