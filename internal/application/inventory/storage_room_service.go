package inventory

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StorageRoomService manages a user's storage rooms
type StorageRoomService struct {
	openUoW UnitOfWorkFactory
	logger  *zap.Logger
	opts    []appshared.ServiceOption
}

// NewStorageRoomService creates a new storage room service
func NewStorageRoomService(openUoW UnitOfWorkFactory, logger *zap.Logger, opts ...appshared.ServiceOption) *StorageRoomService {
	return &StorageRoomService{openUoW: openUoW, logger: logger, opts: opts}
}

func (s *StorageRoomService) Create(ctx context.Context, userID uuid.UUID, input StorageRoomInput) (*StorageRoomResponse, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	room, err := inventory.NewStorageRoom(userID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*StorageRoomResponse, error) {
		if err := storageRooms(uow, s.opts...).Add(ctx, room, shared.ScopedTo(userID)); err != nil {
			return nil, err
		}
		resp := toStorageRoomResponse(room)
		return &resp, nil
	})
}

func (s *StorageRoomService) Get(ctx context.Context, userID, id uuid.UUID) (*StorageRoomResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*StorageRoomResponse, error) {
		room, err := uow.StorageRooms().Find(ctx, id, shared.ScopedTo(userID))
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Storage room not found")
		}
		resp := toStorageRoomResponse(room)
		return &resp, nil
	})
}

func (s *StorageRoomService) List(ctx context.Context, userID uuid.UUID) ([]StorageRoomResponse, error) {
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]StorageRoomResponse, error) {
		rooms, err := shared.Collect(uow.StorageRooms().All(ctx, shared.ScopedTo(userID)))
		if err != nil {
			return nil, err
		}
		out := make([]StorageRoomResponse, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, toStorageRoomResponse(r))
		}
		return out, nil
	})
}

func (s *StorageRoomService) Update(ctx context.Context, userID, id uuid.UUID, input StorageRoomInput) (*StorageRoomResponse, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	scope := shared.ScopedTo(userID)
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*StorageRoomResponse, error) {
		room, err := uow.StorageRooms().Find(ctx, id, scope)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Storage room not found")
		}
		if err := room.Update(input.Name, input.Description); err != nil {
			return nil, err
		}
		updated, err := storageRooms(uow, s.opts...).Update(ctx, room, scope)
		if err != nil {
			return nil, err
		}
		resp := toStorageRoomResponse(updated)
		return &resp, nil
	})
}

// Delete removes a storage room. Products kept there lose the reference.
func (s *StorageRoomService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	scope := shared.ScopedTo(userID)
	_, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (bool, error) {
		room, err := uow.StorageRooms().Find(ctx, id, scope)
		if err != nil || room == nil {
			return false, err
		}
		if err := detachProducts(ctx, uow, scope, s.opts, func(p *inventory.Product) bool {
			if p.StorageRoomID == nil || *p.StorageRoomID != id {
				return false
			}
			p.MoveTo(nil)
			return true
		}); err != nil {
			return false, err
		}
		return true, uow.StorageRooms().RemoveEntity(ctx, room, scope)
	})
	return err
}

// detachProducts rewrites every visible product that clear modifies
func detachProducts(
	ctx context.Context,
	uow UnitOfWork,
	scope shared.Scope[uuid.UUID],
	opts []appshared.ServiceOption,
	clear func(*inventory.Product) bool,
) error {
	all, err := shared.Collect(uow.Products().All(ctx, scope))
	if err != nil {
		return err
	}
	svc := products(uow, opts...)
	for _, p := range all {
		if !clear(p) {
			continue
		}
		if _, err := svc.Update(ctx, p, scope); err != nil {
			return err
		}
	}
	return nil
}
