package persistence

import (
	"context"
	"iter"

	"github.com/stockroom/backend/internal/domain/shared"
)

// MappedRepository exposes a model repository in terms of domain entities.
// Every record crossing the boundary goes through the mapper.
type MappedRepository[D any, M any, PM interface {
	*M
	shared.Entity[K]
}, K comparable] struct {
	models *GormRepository[M, PM, K]
	mapper shared.Mapper[D, M]
}

// NewMappedRepository wraps a model repository with a mapper
func NewMappedRepository[D any, M any, PM interface {
	*M
	shared.Entity[K]
}, K comparable](models *GormRepository[M, PM, K], mapper shared.Mapper[D, M]) *MappedRepository[D, M, PM, K] {
	return &MappedRepository[D, M, PM, K]{models: models, mapper: mapper}
}

// Models returns the underlying model repository for custom queries
func (r *MappedRepository[D, M, PM, K]) Models() *GormRepository[M, PM, K] {
	return r.models
}

func (r *MappedRepository[D, M, PM, K]) All(ctx context.Context, scope shared.Scope[K]) iter.Seq2[*D, error] {
	return func(yield func(*D, error) bool) {
		for m, err := range r.models.All(ctx, scope) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(r.mapper.ToUpper(m), nil) {
				return
			}
		}
	}
}

func (r *MappedRepository[D, M, PM, K]) Find(ctx context.Context, id K, scope shared.Scope[K]) (*D, error) {
	m, err := r.models.Find(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToUpper(m), nil
}

// Add claims the entity for a scoped caller before mapping so the domain
// value and the stored row agree on the owner.
func (r *MappedRepository[D, M, PM, K]) Add(ctx context.Context, entity *D, scope shared.Scope[K]) error {
	if entity == nil {
		return shared.ErrInvalidInput
	}
	scope.Claim(entity)
	return r.models.Add(ctx, r.mapper.ToLower(entity), scope)
}

func (r *MappedRepository[D, M, PM, K]) Update(ctx context.Context, entity *D, scope shared.Scope[K]) (*D, error) {
	if entity == nil {
		return nil, shared.ErrInvalidInput
	}
	scope.Claim(entity)
	m, err := r.models.Update(ctx, r.mapper.ToLower(entity), scope)
	if err != nil || m == nil {
		return nil, err
	}
	return r.mapper.ToUpper(m), nil
}

func (r *MappedRepository[D, M, PM, K]) Remove(ctx context.Context, id K, scope shared.Scope[K]) error {
	return r.models.Remove(ctx, id, scope)
}

func (r *MappedRepository[D, M, PM, K]) RemoveEntity(ctx context.Context, entity *D, scope shared.Scope[K]) error {
	if entity == nil {
		return nil
	}
	return r.models.RemoveEntity(ctx, r.mapper.ToLower(entity), scope)
}

func (r *MappedRepository[D, M, PM, K]) Exists(ctx context.Context, id K, scope shared.Scope[K]) (bool, error) {
	return r.models.Exists(ctx, id, scope)
}

// mapAll converts a model slice with the repository's mapper
func (r *MappedRepository[D, M, PM, K]) mapAll(rows []*M) []*D {
	out := make([]*D, len(rows))
	for i, m := range rows {
		out[i] = r.mapper.ToUpper(m)
	}
	return out
}
