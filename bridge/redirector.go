package bridge

import (
	"context"
	"time"

	"github.com/hupe1980/hostbridge/core"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying hc.
func WithContext(ctx context.Context, hc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, hc)
}

// FromContext returns the execution context carried by ctx.
func FromContext(ctx context.Context) (*Context, bool) {
	if ctx == nil {
		return nil, false
	}
	hc, ok := ctx.Value(contextKey{}).(*Context)
	return hc, ok && hc != nil
}

// Redirector routes continuations of the stage method onto the host
// goroutine. Code that resumes after waiting on a timer, a channel or a
// sub-operation hands the rest of its work to the redirector instead of
// running it on whatever goroutine observed the event.
type Redirector struct {
	hc *Context
}

// Post enqueues fn without waiting for it. An error or panic from fn has no
// awaiter, so it is recorded as a fault of the stage.
func (r *Redirector) Post(fn func(ctx context.Context) error) error {
	hc := r.hc
	a := NewAction(hc.ctx, hc, func(ctx context.Context, _ core.Host, _ struct{}) (res struct{}, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = panicError("posted continuation", rec)
			}
			if err != nil && !core.IsCancellation(err) && !core.IsHostHalted(err) {
				hc.recordFault(err)
				hc.logger.Warn("Unobserved continuation fault", "context_id", hc.id, "error", err.Error())
			}
		}()
		return struct{}{}, fn(ctx)
	}, struct{}{}, nil)
	if err := hc.Enqueue(a); err != nil {
		a.abandon(core.Cancelled(err))
		return err
	}
	return nil
}

// Schedule enqueues fn and returns its future.
func (r *Redirector) Schedule(ctx context.Context, fn func(ctx context.Context) error) (*Future[struct{}], error) {
	a := newContinuation(ctx, r.hc, fn)
	if err := r.hc.Enqueue(a); err != nil {
		a.abandon(core.Cancelled(err))
		return nil, err
	}
	return a.future, nil
}

// After enqueues fn once d elapsed. When ctx or the stage is cancelled first,
// the timer is stopped and the future resolves as cancelled.
func (r *Redirector) After(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) *Future[struct{}] {
	hc := r.hc
	a := newContinuation(ctx, hc, fn)
	timer := time.AfterFunc(d, func() {
		if err := hc.Enqueue(a); err != nil {
			a.abandon(core.Cancelled(err))
		}
	})
	context.AfterFunc(a.ctx, func() {
		if timer.Stop() {
			a.abandon(core.Cancelled(context.Cause(a.ctx)))
		}
	})
	return a.future
}

// ContinueWith enqueues next once f resolved, passing f's outcome. next runs
// on the host goroutine.
func ContinueWith[T, R any](ctx context.Context, r *Redirector, f *Future[T], next func(ctx context.Context, v T, err error) (R, error)) *Future[R] {
	hc := r.hc
	a := NewAction(ctx, hc, func(ctx context.Context, _ core.Host, f *Future[T]) (R, error) {
		v, err := f.Result()
		return next(ctx, v, err)
	}, f, nil)
	go func() {
		select {
		case <-f.Done():
			if err := hc.Enqueue(a); err != nil {
				a.abandon(core.Cancelled(err))
			}
		case <-a.ctx.Done():
			a.abandon(core.Cancelled(context.Cause(a.ctx)))
		}
	}()
	return a.future
}

func newContinuation(ctx context.Context, hc *Context, fn func(ctx context.Context) error) *PendingAction[struct{}, struct{}] {
	return NewAction(ctx, hc, func(ctx context.Context, _ core.Host, _ struct{}) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, struct{}{}, nil)
}
