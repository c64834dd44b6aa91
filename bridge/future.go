package bridge

import (
	"context"
	"sync"

	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/internal/util"
)

// Future is the completion slot of a marshaled call. It resolves exactly once
// with a value, an error or a cancellation.
type Future[T any] struct {
	done    chan struct{}
	once    sync.Once
	value   T
	err     error
	hostGID uint64
}

func newFuture[T any](hostGID uint64) *Future[T] {
	return &Future[T]{done: make(chan struct{}), hostGID: hostGID}
}

// Resolved returns a future that is already complete.
func Resolved[T any](v T, err error) *Future[T] {
	f := newFuture[T](0)
	f.resolve(v, err)
	return f
}

// resolve completes the future. Only the first call has an effect.
func (f *Future[T]) resolve(v T, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
		resolved = true
	})
	return resolved
}

// Done is closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// IsDone reports whether the future resolved.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future resolves or ctx is done. Waiting for an
// unresolved future on the host goroutine of its context fails with a
// UsageError: the action can only run once the host goroutine is free.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	if f.IsDone() {
		return f.value, f.err
	}
	var zero T
	if f.hostGID != 0 && util.GoroutineID() == f.hostGID {
		return zero, core.NewUsageError("wait", "waiting on the host goroutine for a queued action would deadlock")
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return zero, core.Cancelled(context.Cause(ctx))
	}
}

// Result returns the outcome of a resolved future without blocking. It
// returns a UsageError while the future is unresolved.
func (f *Future[T]) Result() (T, error) {
	if !f.IsDone() {
		var zero T
		return zero, core.NewUsageError("result", "future is not resolved yet")
	}
	return f.value, f.err
}

// IsCancelled reports whether the future resolved as cancelled.
func (f *Future[T]) IsCancelled() bool {
	return f.IsDone() && core.IsCancellation(f.err)
}
