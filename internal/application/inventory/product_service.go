package inventory

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages a user's products. Every call is scoped to the
// given user: products of other users behave as if they did not exist.
type ProductService struct {
	openUoW UnitOfWorkFactory
	logger  *zap.Logger
	opts    []appshared.ServiceOption
}

// NewProductService creates a new product service
func NewProductService(openUoW UnitOfWorkFactory, logger *zap.Logger, opts ...appshared.ServiceOption) *ProductService {
	return &ProductService{openUoW: openUoW, logger: logger, opts: opts}
}

// Create adds an empty product. The SKU must be unused among the user's products.
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, input ProductInput) (*ProductResponse, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	product, err := inventory.NewProduct(userID, input.Name, input.SKU, input.Unit)
	if err != nil {
		return nil, err
	}
	scope := shared.ScopedTo(userID)

	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*ProductResponse, error) {
		if err := applyProductInput(ctx, uow, product, input, scope); err != nil {
			return nil, err
		}
		if err := ensureSKUFree(ctx, uow, product, scope); err != nil {
			return nil, err
		}
		if err := products(uow, s.opts...).Add(ctx, product, scope); err != nil {
			return nil, err
		}
		s.logger.Info("Product created",
			zap.String("product_id", product.ID.String()),
			zap.String("sku", product.SKU))
		resp := toProductResponse(product)
		return &resp, nil
	})
}

// Get returns one product; ErrNotFound when it is absent or not the user's
func (s *ProductService) Get(ctx context.Context, userID, id uuid.UUID) (*ProductResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*ProductResponse, error) {
		product, err := findProduct(ctx, uow, id, shared.ScopedTo(userID))
		if err != nil {
			return nil, err
		}
		resp := toProductResponse(product)
		return &resp, nil
	})
}

// GetBySKU looks a product up by SKU
func (s *ProductService) GetBySKU(ctx context.Context, userID uuid.UUID, sku string) (*ProductResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*ProductResponse, error) {
		product, err := uow.Products().FindBySKU(ctx, sku, shared.ScopedTo(userID))
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product not found")
		}
		resp := toProductResponse(product)
		return &resp, nil
	})
}

// List returns the user's products ordered by id
func (s *ProductService) List(ctx context.Context, userID uuid.UUID) ([]ProductResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]ProductResponse, error) {
		out := make([]ProductResponse, 0)
		for p, err := range uow.Products().All(ctx, shared.ScopedTo(userID)) {
			if err != nil {
				return nil, err
			}
			out = append(out, toProductResponse(p))
		}
		return out, nil
	})
}

// LowStock returns the user's products at or below their threshold
func (s *ProductService) LowStock(ctx context.Context, userID uuid.UUID) ([]ProductResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]ProductResponse, error) {
		low, err := uow.Products().FindLowStock(ctx, shared.ScopedTo(userID))
		if err != nil {
			return nil, err
		}
		out := make([]ProductResponse, 0, len(low))
		for _, p := range low {
			out = append(out, toProductResponse(p))
		}
		return out, nil
	})
}

// Update replaces the editable fields. Changing the unit converts the stock
// on hand, so a unit the current one cannot convert to is rejected.
func (s *ProductService) Update(ctx context.Context, userID, id uuid.UUID, input ProductInput) (*ProductResponse, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	scope := shared.ScopedTo(userID)

	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*ProductResponse, error) {
		product, err := findProduct(ctx, uow, id, scope)
		if err != nil {
			return nil, err
		}
		if err := product.Rename(input.Name, input.SKU); err != nil {
			return nil, err
		}
		if err := product.SetUnit(input.Unit); err != nil {
			return nil, err
		}
		if err := applyProductInput(ctx, uow, product, input, scope); err != nil {
			return nil, err
		}
		if err := ensureSKUFree(ctx, uow, product, scope); err != nil {
			return nil, err
		}
		updated, err := products(uow, s.opts...).Update(ctx, product, scope)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product not found")
		}
		resp := toProductResponse(updated)
		return &resp, nil
	})
}

// Delete removes a product and its stock journal
func (s *ProductService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	scope := shared.ScopedTo(userID)
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
		if _, err := findProduct(ctx, uow, id, scope); err != nil {
			return false, err
		}
		journal, err := uow.StockActions().ForProduct(ctx, id, scope)
		if err != nil {
			return false, err
		}
		for _, a := range journal {
			if err := uow.StockActions().RemoveEntity(ctx, a, scope); err != nil {
				return false, err
			}
		}
		return true, uow.Products().Remove(ctx, id, scope)
	})
	if err == nil {
		s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	}
	return err
}

func findProduct(ctx context.Context, uow UnitOfWork, id uuid.UUID, scope shared.Scope[uuid.UUID]) (*inventory.Product, error) {
	product, err := uow.Products().Find(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product not found")
	}
	return product, nil
}

// applyProductInput sets the threshold and references. Referenced supplier
// and storage room must be visible under the same scope.
func applyProductInput(ctx context.Context, uow UnitOfWork, p *inventory.Product, input ProductInput, scope shared.Scope[uuid.UUID]) error {
	if err := p.SetMinQuantity(input.MinQuantity); err != nil {
		return err
	}
	if input.SupplierID != nil {
		ok, err := uow.Suppliers().Exists(ctx, *input.SupplierID, scope)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewDomainError(shared.ErrNotFound.Code, "Supplier not found")
		}
	}
	if input.StorageRoomID != nil {
		ok, err := uow.StorageRooms().Exists(ctx, *input.StorageRoomID, scope)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewDomainError(shared.ErrNotFound.Code, "Storage room not found")
		}
	}
	p.AssignSupplier(input.SupplierID)
	p.MoveTo(input.StorageRoomID)
	return nil
}

func ensureSKUFree(ctx context.Context, uow UnitOfWork, p *inventory.Product, scope shared.Scope[uuid.UUID]) error {
	other, err := uow.Products().FindBySKU(ctx, p.SKU, scope)
	if err != nil {
		return err
	}
	if other != nil && other.ID != p.ID {
		return shared.NewDomainError(shared.ErrConflict.Code, "SKU "+p.SKU+" is already in use")
	}
	return nil
}
