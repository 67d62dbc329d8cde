// Package goroutine runs background tasks with a concurrency limit, panic
// recovery and error collection.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/gootp/internal/pkg/stacktrace"
)

// DefaultLimit is used when NewManager receives a non-positive limit.
const DefaultLimit = 16

var (
	ErrClosed       = errors.New("goroutine: manager is closed")
	ErrLimitReached = errors.New("goroutine: concurrency limit reached")
)

// Manager tracks background tasks started during the application lifetime.
//
// Errors returned by tasks, including recovered panics, are collected and
// returned by Wait. After Wait the manager rejects new tasks.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	wg     sync.WaitGroup
	sema   chan struct{}
	closed bool
}

func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}

	return &Manager{sema: make(chan struct{}, limit)}
}

// Go starts f in a new goroutine. It does not block: when the manager is
// closed or full the task is dropped and the reason is returned.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, task dropped", "task", name)
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "task", name)
		return ErrLimitReached
	}

	g.wg.Go(func() {
		defer func() { <-g.sema }()

		if err := g.run(ctx, name, f); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return nil
}

func (g *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "stack", string(stack))
			}
			err = fmt.Errorf("%s: panic: %v", name, rvr)
		}
	}()

	if err := ctx.Err(); err != nil {
		slog.WarnContext(ctx, "goroutine canceled before start", "task", name, "because", err)
		return nil
	}

	if err := f(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Wait closes the manager, blocks until every task has returned and joins
// their errors.
func (g *Manager) Wait() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
