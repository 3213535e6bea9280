// Package txn defines the unit-of-work boundary every workflow operation runs in.
package txn

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Runner executes fn as one atomic unit of work. Implementations may wrap a database
// transaction or, in-memory, a coarse lock. A Runner invoked with a context that is
// already inside a unit of work joins it instead of starting a new one.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DefaultTimeout bounds a unit of work when the caller did not set a deadline.
const DefaultTimeout = 5 * time.Second

type localKey struct{}

// LocalRunner serializes units of work with a single process-wide mutex. It backs the
// in-memory repositories, which have no rollback, so services must finish every check
// before their first write.
type LocalRunner struct {
	mu      sync.Mutex
	timeout time.Duration
}

// NewLocalRunner builds an in-process runner.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{timeout: DefaultTimeout}
}

// RunInTx acquires the process-wide lock unless ctx already holds it.
func (r *LocalRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	return fn(context.WithValue(ctx, localKey{}, true))
}

// InTx reports whether ctx is already inside a local unit of work.
func InTx(ctx context.Context) bool {
	v, _ := ctx.Value(localKey{}).(bool)
	return v
}

var _ Runner = (*LocalRunner)(nil)
