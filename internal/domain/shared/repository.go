package shared

import (
	"context"
	"iter"
)

// Repository is the CRUD contract over one record type. Every call takes a
// Scope; a scoped call never observes or mutates a record owned by another
// user, and an ownership mismatch is reported exactly like a missing record.
type Repository[T any, K comparable] interface {
	// All yields every visible record ordered by key. The sequence is lazy and
	// restartable: each range runs the query again.
	All(ctx context.Context, scope Scope[K]) iter.Seq2[*T, error]
	// Find returns nil, nil when the record is absent or not visible.
	Find(ctx context.Context, id K, scope Scope[K]) (*T, error)
	// Add inserts a new record. ErrConflict when the key is taken.
	Add(ctx context.Context, entity *T, scope Scope[K]) error
	// Update replaces the stored record with the same key. nil, nil when absent.
	Update(ctx context.Context, entity *T, scope Scope[K]) (*T, error)
	// Remove deletes by key. Removing an absent record is a no-op.
	Remove(ctx context.Context, id K, scope Scope[K]) error
	// RemoveEntity deletes by the key carried by entity.
	RemoveEntity(ctx context.Context, entity *T, scope Scope[K]) error
	Exists(ctx context.Context, id K, scope Scope[K]) (bool, error)
}

// ChangeSaver commits pending repository mutations and returns the number of
// affected records.
type ChangeSaver interface {
	SaveChanges(ctx context.Context) (int, error)
}

// Mapper converts between two shapes of the same logical record. Both
// directions are nil-safe: a nil input yields a nil output.
type Mapper[U any, L any] interface {
	ToUpper(lower *L) *U
	ToLower(upper *U) *L
}

// CallerIdentity resolves the name recorded in audit metadata.
type CallerIdentity interface {
	// CurrentUserName returns SystemUserName when there is no authenticated caller.
	CurrentUserName(ctx context.Context) string
}

// Collect drains a record sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	out := make([]*T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
