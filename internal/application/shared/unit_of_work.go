package shared

import (
	"context"
	"errors"

	domain "github.com/stockroom/backend/internal/domain/shared"
)

// UnitOfWork is the part of a unit of work every application service needs.
// Bounded contexts extend it with their repositories.
type UnitOfWork interface {
	domain.ChangeSaver
	Close() error
}

// Run opens a unit of work, hands it to fn and commits when fn succeeds.
// Anything left uncommitted is rolled back when Run returns.
func Run[U UnitOfWork, R any](ctx context.Context, open func(context.Context) (U, error), fn func(U) (R, error)) (result R, err error) {
	uow, err := open(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		err = errors.Join(err, uow.Close())
	}()

	result, err = fn(uow)
	if err != nil {
		var zero R
		return zero, err
	}
	if _, err = uow.SaveChanges(ctx); err != nil {
		var zero R
		return zero, err
	}
	return result, nil
}
