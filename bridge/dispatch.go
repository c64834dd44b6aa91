package bridge

import (
	"context"

	"github.com/hupe1980/hostbridge/core"
)

type callOptions struct {
	inline *bool
	post   func()
}

// CallOption tunes a single Call.
type CallOption func(o *callOptions)

// Inline overrides the context default for calls issued on the host
// goroutine. Inline(false) on the host goroutine is rejected because the
// queued call could never be drained.
func Inline(enabled bool) CallOption {
	return func(o *callOptions) { o.inline = &enabled }
}

// WithPost registers fn to run after the call resolved, on every path.
func WithPost(fn func()) CallOption {
	return func(o *callOptions) { o.post = fn }
}

// Call runs fn(arg) against the host on the host goroutine and returns its
// future. When hc is nil the context carried by ctx is used. On the host
// goroutine the call runs in place and the returned future is already
// resolved; from any other goroutine it is queued.
//
// Usage errors (no context, disposed or closed context, forbidden queueing)
// are returned directly and never through the future.
func Call[A, R any](ctx context.Context, hc *Context, fn WorkFunc[A, R], arg A, opts ...CallOption) (*Future[R], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if hc == nil {
		var ok bool
		if hc, ok = FromContext(ctx); !ok {
			return nil, core.NewUsageError("call", "no execution context in ctx")
		}
	}
	if hc.IsDisposed() {
		return nil, core.NewUsageError("call", "execution context is disposed")
	}
	o := callOptions{}
	for _, fn := range opts {
		fn(&o)
	}
	inline := hc.inline
	if o.inline != nil {
		inline = *o.inline
	}

	if hc.IsHostGoroutine() {
		if !inline {
			return nil, core.NewUsageError("call", "queueing a call from the host goroutine would deadlock")
		}
		a := NewAction(ctx, hc, fn, arg, o.post)
		hc.observer.InlineCall(hc.stage)
		a.Invoke()
		return a.future, nil
	}

	a := NewAction(ctx, hc, fn, arg, o.post)
	if err := hc.Enqueue(a); err != nil {
		a.abandon(core.Cancelled(err))
		return nil, err
	}
	return a.future, nil
}

// Invoke is Call for work that takes no argument.
func Invoke[R any](ctx context.Context, hc *Context, fn func(ctx context.Context, h core.Host) (R, error), opts ...CallOption) (*Future[R], error) {
	return Call(ctx, hc, func(ctx context.Context, h core.Host, _ struct{}) (R, error) {
		return fn(ctx, h)
	}, struct{}{}, opts...)
}

// Do runs fn on the host goroutine and waits for it.
func Do(ctx context.Context, hc *Context, fn func(ctx context.Context, h core.Host) error, opts ...CallOption) error {
	_, err := Exec(ctx, hc, func(ctx context.Context, h core.Host) (struct{}, error) {
		return struct{}{}, fn(ctx, h)
	}, opts...)
	return err
}

// Exec runs fn on the host goroutine and waits for its result.
func Exec[R any](ctx context.Context, hc *Context, fn func(ctx context.Context, h core.Host) (R, error), opts ...CallOption) (R, error) {
	f, err := Invoke(ctx, hc, fn, opts...)
	if err != nil {
		var zero R
		return zero, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return f.Wait(ctx)
}
