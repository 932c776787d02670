package inventory

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService manages a user's suppliers
type SupplierService struct {
	openUoW UnitOfWorkFactory
	logger  *zap.Logger
	opts    []appshared.ServiceOption
}

// NewSupplierService creates a new supplier service
func NewSupplierService(openUoW UnitOfWorkFactory, logger *zap.Logger, opts ...appshared.ServiceOption) *SupplierService {
	return &SupplierService{openUoW: openUoW, logger: logger, opts: opts}
}

func (s *SupplierService) Create(ctx context.Context, userID uuid.UUID, input SupplierInput) (*SupplierResponse, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	supplier, err := inventory.NewSupplier(userID, input.Name)
	if err != nil {
		return nil, err
	}
	if err := supplier.SetContact(input.Email, input.Phone, input.Address); err != nil {
		return nil, err
	}
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*SupplierResponse, error) {
		if err := suppliers(uow, s.opts...).Add(ctx, supplier, shared.ScopedTo(userID)); err != nil {
			return nil, err
		}
		resp := toSupplierResponse(supplier)
		return &resp, nil
	})
}

func (s *SupplierService) Get(ctx context.Context, userID, id uuid.UUID) (*SupplierResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*SupplierResponse, error) {
		supplier, err := uow.Suppliers().Find(ctx, id, shared.ScopedTo(userID))
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Supplier not found")
		}
		resp := toSupplierResponse(supplier)
		return &resp, nil
	})
}

func (s *SupplierService) List(ctx context.Context, userID uuid.UUID) ([]SupplierResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]SupplierResponse, error) {
		all, err := shared.Collect(uow.Suppliers().All(ctx, shared.ScopedTo(userID)))
		if err != nil {
			return nil, err
		}
		out := make([]SupplierResponse, 0, len(all))
		for _, sup := range all {
			out = append(out, toSupplierResponse(sup))
		}
		return out, nil
	})
}

func (s *SupplierService) Update(ctx context.Context, userID, id uuid.UUID, input SupplierInput) (*SupplierResponse, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	scope := shared.ScopedTo(userID)
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*SupplierResponse, error) {
		supplier, err := uow.Suppliers().Find(ctx, id, scope)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Supplier not found")
		}
		if err := supplier.Rename(input.Name); err != nil {
			return nil, err
		}
		if err := supplier.SetContact(input.Email, input.Phone, input.Address); err != nil {
			return nil, err
		}
		updated, err := suppliers(uow, s.opts...).Update(ctx, supplier, scope)
		if err != nil {
			return nil, err
		}
		resp := toSupplierResponse(updated)
		return &resp, nil
	})
}

// Delete removes a supplier. Products bought from it lose the reference.
func (s *SupplierService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	scope := shared.ScopedTo(userID)
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
		supplier, err := uow.Suppliers().Find(ctx, id, scope)
		if err != nil || supplier == nil {
			return false, err
		}
		if err := detachProducts(ctx, uow, scope, s.opts, func(p *inventory.Product) bool {
			if p.SupplierID == nil || *p.SupplierID != id {
				return false
			}
			p.AssignSupplier(nil)
			return true
		}); err != nil {
			return false, err
		}
		return true, uow.Suppliers().RemoveEntity(ctx, supplier, scope)
	})
	return err
}
