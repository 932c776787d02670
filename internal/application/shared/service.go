// Package shared holds application-layer building blocks used by every
// bounded context: the audit-stamping entity service and the unit of work
// runner.
package shared

import (
	"context"
	"iter"
	"time"

	domain "github.com/stockroom/backend/internal/domain/shared"
)

// Record is the constraint on entity pointers handled by EntityService
type Record[T any, K comparable] interface {
	*T
	domain.Entity[K]
	domain.Auditable
}

// EntityService fronts a repository and owns the audit fields: Add stamps
// the creator, Update carries the creation stamp forward and stamps the
// change. Every other operation passes straight through.
type EntityService[T any, PT Record[T, K], K comparable] struct {
	repo   domain.Repository[T, K]
	saver  domain.ChangeSaver
	caller domain.CallerIdentity
	now    func() time.Time
}

// ServiceOption configures an EntityService
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	caller domain.CallerIdentity
	now    func() time.Time
}

// WithCaller sets how the audit user name is resolved
func WithCaller(c domain.CallerIdentity) ServiceOption {
	return func(o *serviceOptions) {
		o.caller = c
	}
}

// WithClock replaces the wall clock used for audit timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// NewEntityService wraps repo. saver is usually the unit of work that owns repo.
func NewEntityService[T any, PT Record[T, K], K comparable](
	repo domain.Repository[T, K],
	saver domain.ChangeSaver,
	opts ...ServiceOption,
) *EntityService[T, PT, K] {
	o := serviceOptions{
		caller: ContextCaller{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &EntityService[T, PT, K]{
		repo:   repo,
		saver:  saver,
		caller: o.caller,
		now:    o.now,
	}
}

func (s *EntityService[T, PT, K]) All(ctx context.Context, scope domain.Scope[K]) iter.Seq2[*T, error] {
	return s.repo.All(ctx, scope)
}

func (s *EntityService[T, PT, K]) Find(ctx context.Context, id K, scope domain.Scope[K]) (*T, error) {
	return s.repo.Find(ctx, id, scope)
}

// Add stamps the creation fields and inserts the entity. Whatever audit
// values the entity carried are replaced; only SysNotes survives.
func (s *EntityService[T, PT, K]) Add(ctx context.Context, entity *T, scope domain.Scope[K]) error {
	if entity == nil {
		return domain.ErrInvalidInput
	}
	audit := PT(entity).Audit()
	*audit = domain.AuditMeta{SysNotes: audit.SysNotes}
	audit.StampCreated(s.caller.CurrentUserName(ctx), s.now())
	return s.repo.Add(ctx, entity, scope)
}

// Update replaces the visible record with the same key. The stored creation
// stamp wins over whatever the caller sent, and the change stamp never moves
// backwards. Returns nil, nil when no visible record exists.
func (s *EntityService[T, PT, K]) Update(ctx context.Context, entity *T, scope domain.Scope[K]) (*T, error) {
	if entity == nil {
		return nil, domain.ErrInvalidInput
	}
	current, err := s.repo.Find(ctx, PT(entity).GetID(), scope)
	if err != nil || current == nil {
		return nil, err
	}
	prev := PT(current).Audit()
	audit := PT(entity).Audit()
	audit.CarryCreation(*prev)
	audit.ChangedBy = prev.ChangedBy
	audit.ChangedAt = prev.ChangedAt
	audit.StampChanged(s.caller.CurrentUserName(ctx), s.now())
	return s.repo.Update(ctx, entity, scope)
}

func (s *EntityService[T, PT, K]) Remove(ctx context.Context, id K, scope domain.Scope[K]) error {
	return s.repo.Remove(ctx, id, scope)
}

func (s *EntityService[T, PT, K]) RemoveEntity(ctx context.Context, entity *T, scope domain.Scope[K]) error {
	return s.repo.RemoveEntity(ctx, entity, scope)
}

func (s *EntityService[T, PT, K]) Exists(ctx context.Context, id K, scope domain.Scope[K]) (bool, error) {
	return s.repo.Exists(ctx, id, scope)
}

// SaveChanges commits through the owning unit of work
func (s *EntityService[T, PT, K]) SaveChanges(ctx context.Context) (int, error) {
	return s.saver.SaveChanges(ctx)
}
