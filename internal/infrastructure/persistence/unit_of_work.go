package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// CommitObserver is told about every commit attempt. It lets the metrics
// package count commits without persistence importing it.
type CommitObserver interface {
	ObserveCommit(rows int, err error)
}

// UnitOfWork groups repository mutations into one database transaction.
// It exposes a fixed set of repositories that all join the transaction.
//
// A UnitOfWork is not safe for concurrent use; open one per request.
// Repositories are rebound after every commit, so fetch them from the unit
// of work for each operation instead of holding on to them.
type UnitOfWork struct {
	db       *gorm.DB
	tx       *gorm.DB
	tracker  *changeTracker
	observer CommitObserver

	users         *GormUserRepository
	roles         *GormRoleRepository
	userRoles     *GormUserRoleRepository
	refreshTokens *GormRefreshTokenRepository
	products      *GormProductRepository
	storageRooms  *GormStorageRoomRepository
	suppliers     *GormSupplierRepository
	stockActions  *GormStockActionRepository
}

// UnitOfWorkOption configures a UnitOfWork
type UnitOfWorkOption func(*UnitOfWork)

// WithCommitObserver reports commit outcomes to o
func WithCommitObserver(o CommitObserver) UnitOfWorkOption {
	return func(u *UnitOfWork) {
		u.observer = o
	}
}

// NewUnitOfWork begins a transaction on db and binds the repositories to it.
func NewUnitOfWork(ctx context.Context, db *gorm.DB, opts ...UnitOfWorkOption) (*UnitOfWork, error) {
	u := &UnitOfWork{db: db, tracker: &changeTracker{}}
	for _, opt := range opts {
		opt(u)
	}
	if err := u.begin(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *UnitOfWork) begin(ctx context.Context) error {
	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{})
	if tx.Error != nil {
		return translateError("begin", tx.Error)
	}
	u.tx = tx
	u.tracker.drain()
	u.users = newGormUserRepository(tx, u.tracker)
	u.roles = newGormRoleRepository(tx, u.tracker)
	u.userRoles = newGormUserRoleRepository(tx, u.tracker)
	u.refreshTokens = newGormRefreshTokenRepository(tx, u.tracker)
	u.products = newGormProductRepository(tx, u.tracker)
	u.storageRooms = newGormStorageRoomRepository(tx, u.tracker)
	u.suppliers = newGormSupplierRepository(tx, u.tracker)
	u.stockActions = newGormStockActionRepository(tx, u.tracker)
	return nil
}

func (u *UnitOfWork) Users() identity.UserRepository                 { return u.users }
func (u *UnitOfWork) Roles() identity.RoleRepository                 { return u.roles }
func (u *UnitOfWork) UserRoles() identity.UserRoleRepository         { return u.userRoles }
func (u *UnitOfWork) RefreshTokens() identity.RefreshTokenRepository { return u.refreshTokens }
func (u *UnitOfWork) Products() inventory.ProductRepository          { return u.products }
func (u *UnitOfWork) StorageRooms() inventory.StorageRoomRepository  { return u.storageRooms }
func (u *UnitOfWork) Suppliers() inventory.SupplierRepository        { return u.suppliers }
func (u *UnitOfWork) StockActions() inventory.StockActionRepository  { return u.stockActions }

// Err returns ErrUnitOfWorkFailed once a commit has failed and Reset has not
// been called since.
func (u *UnitOfWork) Err() error {
	return u.tracker.check()
}

// SaveChanges commits the pending work and returns the number of rows the
// repositories touched since the previous commit. A new transaction is begun
// afterwards so the unit of work stays usable.
//
// If the commit fails the transaction is rolled back and the unit of work is
// marked failed: every later call returns ErrUnitOfWorkFailed until Reset.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if err := u.Err(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, u.fail(err)
	}
	rows := u.tracker.drain()
	if err := u.tx.Commit().Error; err != nil {
		return 0, u.fail(err)
	}
	u.observe(rows, nil)
	if err := u.begin(ctx); err != nil {
		u.tracker.setFailed(true)
		return rows, err
	}
	return rows, nil
}

func (u *UnitOfWork) fail(cause error) error {
	u.tx.Rollback()
	u.tracker.setFailed(true)
	u.observe(0, cause)
	return fmt.Errorf("%w: %w", shared.ErrUnitOfWorkFailed, cause)
}

func (u *UnitOfWork) observe(rows int, err error) {
	if u.observer != nil {
		u.observer.ObserveCommit(rows, err)
	}
}

// Rollback discards the pending work and begins a fresh transaction.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if err := u.Err(); err != nil {
		return err
	}
	if err := u.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.tracker.setFailed(true)
		return translateError("rollback", err)
	}
	return u.begin(ctx)
}

// Reset clears the failed state and begins a new transaction.
func (u *UnitOfWork) Reset(ctx context.Context) error {
	if u.tx != nil {
		u.tx.Rollback()
	}
	u.tracker.setFailed(false)
	return u.begin(ctx)
}

// Close rolls back anything not yet committed. The unit of work must not be
// used afterwards.
func (u *UnitOfWork) Close() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return translateError("close", err)
	}
	return nil
}
