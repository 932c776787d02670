package persistence

import (
	"context"
	"fmt"
	"iter"

	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const (
	// keyColumn is the primary key column of every table
	keyColumn = "id"
	// versionColumn holds the optimistic lock counter of Versioned models
	versionColumn = "version"
	// defaultBatchSize is the page size All uses while walking a table
	defaultBatchSize = 200
)

// GormRepository implements shared.Repository over a GORM model type M.
// Records whose model is Ownable are filtered by the scope of each call;
// other records ignore the scope.
type GormRepository[M any, PM interface {
	*M
	shared.Entity[K]
}, K comparable] struct {
	db        *gorm.DB
	tracker   *changeTracker
	ownable   bool
	batchSize int
}

// NewGormRepository creates a repository bound to db. When db is a
// transaction, every call joins it.
func NewGormRepository[M any, PM interface {
	*M
	shared.Entity[K]
}, K comparable](db *gorm.DB) *GormRepository[M, PM, K] {
	return newGormRepository[M, PM, K](db, nil)
}

func newGormRepository[M any, PM interface {
	*M
	shared.Entity[K]
}, K comparable](db *gorm.DB, tracker *changeTracker) *GormRepository[M, PM, K] {
	_, ownable := any(PM(new(M))).(shared.Ownable[K])
	return &GormRepository[M, PM, K]{
		db:        db,
		tracker:   tracker,
		ownable:   ownable,
		batchSize: defaultBatchSize,
	}
}

// Query returns a session on the model's table with the owner filter of
// scope applied.
func (r *GormRepository[M, PM, K]) Query(ctx context.Context, scope shared.Scope[K]) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(M))
	if r.ownable {
		q = q.Scopes(OwnerScope(scope))
	}
	return q
}

// All walks the table in key order, one page at a time. Each range over the
// returned sequence starts again from the first key.
func (r *GormRepository[M, PM, K]) All(ctx context.Context, scope shared.Scope[K]) iter.Seq2[*M, error] {
	return func(yield func(*M, error) bool) {
		if err := r.tracker.check(); err != nil {
			yield(nil, err)
			return
		}
		var last K
		first := true
		for {
			q := r.Query(ctx, scope).Order(keyColumn).Limit(r.batchSize)
			if !first {
				q = q.Where(keyColumn+" > ?", last)
			}
			var page []M
			if err := q.Find(&page).Error; err != nil {
				yield(nil, translateError("list", err))
				return
			}
			for i := range page {
				if !yield(&page[i], nil) {
					return
				}
			}
			if len(page) < r.batchSize {
				return
			}
			last = PM(&page[len(page)-1]).GetID()
			first = false
		}
	}
}

// Find returns nil, nil when the record is absent or owned by someone else.
func (r *GormRepository[M, PM, K]) Find(ctx context.Context, id K, scope shared.Scope[K]) (*M, error) {
	return r.FindOne(ctx, scope, keyColumn+" = ?", id)
}

// FindOne returns the first visible record matching the condition, or nil.
func (r *GormRepository[M, PM, K]) FindOne(ctx context.Context, scope shared.Scope[K], query any, args ...any) (*M, error) {
	if err := r.tracker.check(); err != nil {
		return nil, err
	}
	var m M
	res := r.Query(ctx, scope).Where(query, args...).Order(keyColumn).Limit(1).Find(&m)
	if res.Error != nil {
		return nil, translateError("find", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &m, nil
}

// FindMany returns every visible record matching the condition, in the given order.
func (r *GormRepository[M, PM, K]) FindMany(ctx context.Context, scope shared.Scope[K], order string, query any, args ...any) ([]*M, error) {
	if err := r.tracker.check(); err != nil {
		return nil, err
	}
	var rows []M
	if err := r.Query(ctx, scope).Where(query, args...).Order(order).Find(&rows).Error; err != nil {
		return nil, translateError("find", err)
	}
	out := make([]*M, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

// Add inserts entity. A scoped call makes the scope user its owner.
// The insert runs under a savepoint so a conflict leaves an enclosing
// transaction usable.
func (r *GormRepository[M, PM, K]) Add(ctx context.Context, entity *M, scope shared.Scope[K]) error {
	if err := r.tracker.check(); err != nil {
		return err
	}
	if entity == nil {
		return shared.ErrInvalidInput
	}
	scope.Claim(PM(entity))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Create(entity)
		if res.Error != nil {
			return res.Error
		}
		r.tracker.add(res.RowsAffected)
		return nil
	})
	return translateError("add", err)
}

// Versioned is implemented by models that carry an optimistic lock column.
type Versioned interface {
	GetVersion() int64
	SetVersion(v int64)
}

// Guarded is implemented by models whose stored rows may only be overwritten
// while they still match a condition.
type Guarded interface {
	UpdateGuard() string
}

// ErrStaleRecord is returned by Update when a versioned record changed after
// it was read.
var ErrStaleRecord = shared.NewDomainError(shared.ErrConflict.Code, "The record has been modified by another transaction")

// Update overwrites every column of the stored record with the same key.
// A scoped call can neither see another user's record nor hand the record
// to another owner. Versioned records only match the version they were read
// at and are stored with the next one. Guarded records that no longer meet
// their guard are left alone and nil, nil is returned.
func (r *GormRepository[M, PM, K]) Update(ctx context.Context, entity *M, scope shared.Scope[K]) (*M, error) {
	if err := r.tracker.check(); err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, shared.ErrInvalidInput
	}
	scope.Claim(PM(entity))
	id := PM(entity).GetID()
	q := r.Query(ctx, scope).Where(keyColumn+" = ?", id)
	if g, ok := any(PM(entity)).(Guarded); ok {
		q = q.Where(g.UpdateGuard())
	}

	v, versioned := any(PM(entity)).(Versioned)
	var expected int64
	if versioned {
		expected = v.GetVersion()
		q = q.Where(versionColumn+" = ?", expected)
		v.SetVersion(expected + 1)
	}

	res := q.Select("*").Omit(keyColumn).Updates(entity)
	if res.Error != nil {
		if versioned {
			v.SetVersion(expected)
		}
		return nil, translateError("update", res.Error)
	}
	if res.RowsAffected == 0 {
		if !versioned {
			return nil, nil
		}
		v.SetVersion(expected)
		exists, err := r.Exists(ctx, id, scope)
		if err != nil || !exists {
			return nil, err
		}
		return nil, fmt.Errorf("update: %w", ErrStaleRecord)
	}
	r.tracker.add(res.RowsAffected)
	return entity, nil
}

// Remove deletes the visible record with the key. Absent records are ignored.
func (r *GormRepository[M, PM, K]) Remove(ctx context.Context, id K, scope shared.Scope[K]) error {
	_, err := r.DeleteWhere(ctx, scope, keyColumn+" = ?", id)
	return err
}

// RemoveEntity deletes by the key entity carries.
func (r *GormRepository[M, PM, K]) RemoveEntity(ctx context.Context, entity *M, scope shared.Scope[K]) error {
	if entity == nil {
		return nil
	}
	return r.Remove(ctx, PM(entity).GetID(), scope)
}

// DeleteWhere deletes every visible record matching the condition.
func (r *GormRepository[M, PM, K]) DeleteWhere(ctx context.Context, scope shared.Scope[K], query any, args ...any) (int64, error) {
	if err := r.tracker.check(); err != nil {
		return 0, err
	}
	res := r.Query(ctx, scope).Where(query, args...).Delete(new(M))
	if res.Error != nil {
		return 0, translateError("remove", res.Error)
	}
	r.tracker.add(res.RowsAffected)
	return res.RowsAffected, nil
}

// UpdateWhere sets columns on every visible record matching the condition.
func (r *GormRepository[M, PM, K]) UpdateWhere(ctx context.Context, scope shared.Scope[K], columns map[string]any, query any, args ...any) (int64, error) {
	if err := r.tracker.check(); err != nil {
		return 0, err
	}
	res := r.Query(ctx, scope).Where(query, args...).Updates(columns)
	if res.Error != nil {
		return 0, translateError("update", res.Error)
	}
	r.tracker.add(res.RowsAffected)
	return res.RowsAffected, nil
}

// Check returns ErrUnitOfWorkFailed when the repository belongs to a failed
// unit of work.
func (r *GormRepository[M, PM, K]) Check() error {
	return r.tracker.check()
}

func (r *GormRepository[M, PM, K]) Exists(ctx context.Context, id K, scope shared.Scope[K]) (bool, error) {
	if err := r.tracker.check(); err != nil {
		return false, err
	}
	var n int64
	if err := r.Query(ctx, scope).Where(keyColumn+" = ?", id).Count(&n).Error; err != nil {
		return false, translateError("exists", err)
	}
	return n > 0, nil
}
