package inventory

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// UnitOfWork is the transaction boundary the inventory services work in
type UnitOfWork interface {
	appshared.UnitOfWork
	Products() inventory.ProductRepository
	StorageRooms() inventory.StorageRoomRepository
	Suppliers() inventory.SupplierRepository
	StockActions() inventory.StockActionRepository
}

// UnitOfWorkFactory opens a unit of work bound to ctx
type UnitOfWorkFactory func(ctx context.Context) (UnitOfWork, error)

func products(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[inventory.Product, *inventory.Product, uuid.UUID] {
	return appshared.NewEntityService[inventory.Product, *inventory.Product, uuid.UUID](uow.Products(), uow, opts...)
}

func storageRooms(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[inventory.StorageRoom, *inventory.StorageRoom, uuid.UUID] {
	return appshared.NewEntityService[inventory.StorageRoom, *inventory.StorageRoom, uuid.UUID](uow.StorageRooms(), uow, opts...)
}

func suppliers(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[inventory.Supplier, *inventory.Supplier, uuid.UUID] {
	return appshared.NewEntityService[inventory.Supplier, *inventory.Supplier, uuid.UUID](uow.Suppliers(), uow, opts...)
}

func stockActions(uow UnitOfWork, opts ...appshared.ServiceOption) *appshared.EntityService[inventory.StockAction, *inventory.StockAction, uuid.UUID] {
	return appshared.NewEntityService[inventory.StockAction, *inventory.StockAction, uuid.UUID](uow.StockActions(), uow, opts...)
}
