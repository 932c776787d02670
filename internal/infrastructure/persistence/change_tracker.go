package persistence

import (
	"sync"

	"github.com/stockroom/backend/internal/domain/shared"
)

// changeTracker is shared by the repositories of one unit of work. It counts
// rows affected by mutations between commits and carries the failed state.
type changeTracker struct {
	mu     sync.Mutex
	count  int64
	failed bool
}

func (t *changeTracker) add(n int64) {
	if t == nil || n <= 0 {
		return
	}
	t.mu.Lock()
	t.count += n
	t.mu.Unlock()
}

// drain returns the pending count and resets it
func (t *changeTracker) drain() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.count
	t.count = 0
	return int(n)
}

func (t *changeTracker) setFailed(failed bool) {
	t.mu.Lock()
	t.failed = failed
	t.mu.Unlock()
}

// check returns ErrUnitOfWorkFailed while the owning unit of work is failed
func (t *changeTracker) check() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failed {
		return shared.ErrUnitOfWorkFailed
	}
	return nil
}
