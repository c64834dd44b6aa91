package bridge

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/internal/util"
	"github.com/hupe1980/hostbridge/logging"
)

const (
	contextOpen int32 = iota
	contextClosed
	contextDisposed
)

// ContextOptions configures a Context.
type ContextOptions struct {
	// Observer receives instrumentation callbacks.
	Observer Observer
	// Logger receives lifecycle debug logs.
	Logger logging.Logger
	// Inline runs calls issued on the host goroutine in place.
	Inline bool
}

// Context is the execution context of one lifecycle stage invocation. It owns
// the action queue drained by the host goroutine and the cancellation source
// shared by every action created for the stage.
type Context struct {
	id       string
	owner    any
	host     core.Host
	stage    core.Stage
	hostGID  uint64
	queue    *actionQueue
	ctx      context.Context
	cancel   context.CancelCauseFunc
	registry *Registry
	observer Observer
	logger   logging.Logger
	inline   bool
	prev     *Context

	state      atomic.Int32
	cancelOnce sync.Once
	mu         sync.Mutex
	faults     []error
	redirector *Redirector
}

// NewContext creates the execution context for stage on the calling
// goroutine, which becomes the host goroutine. When reg is not nil the
// context is registered for owner; a second live context for the same owner
// fails with a UsageError.
func NewContext(parent context.Context, reg *Registry, owner any, host core.Host, stage core.Stage, optFns ...func(o *ContextOptions)) (*Context, error) {
	if parent == nil {
		parent = context.Background()
	}
	if host == nil {
		return nil, core.NewUsageError("new context", "host must not be nil")
	}
	opts := ContextOptions{Inline: true}
	for _, fn := range optFns {
		fn(&opts)
	}

	hc := &Context{
		id:       util.NewID(),
		owner:    owner,
		host:     host,
		stage:    stage,
		hostGID:  util.GoroutineID(),
		queue:    newActionQueue(),
		registry: reg,
		observer: orNop(opts.Observer),
		logger:   logging.OrNoOp(opts.Logger),
		inline:   opts.Inline,
	}
	if bl, ok := hc.logger.(*logging.BridgeLogger); ok {
		hc.logger = bl.WithExecution(hc.id, stage.String())
	}
	hc.prev, _ = FromContext(parent)
	hc.redirector = &Redirector{hc: hc}
	hc.ctx, hc.cancel = context.WithCancelCause(WithContext(parent, hc))

	if reg != nil {
		if err := reg.Register(owner, hc); err != nil {
			hc.cancel(err)
			return nil, err
		}
	}
	hc.observer.ContextCreated(stage)
	hc.logger.Debug("Execution context created", "context_id", hc.id, "stage", stage.String())
	return hc, nil
}

// ID returns the context identifier.
func (hc *Context) ID() string { return hc.id }

// Owner returns the logic instance the context was created for.
func (hc *Context) Owner() any { return hc.owner }

// Host returns the host the context marshals calls to.
func (hc *Context) Host() core.Host { return hc.host }

// Stage returns the lifecycle stage the context serves.
func (hc *Context) Stage() core.Stage { return hc.stage }

// Ctx returns the context.Context cancelled when the stage is cancelled. It
// carries hc, so FromContext works on it and on anything derived from it.
func (hc *Context) Ctx() context.Context { return hc.ctx }

// Done is closed once cancellation was requested.
func (hc *Context) Done() <-chan struct{} { return hc.ctx.Done() }

// Err returns a cancellation error once cancellation was requested.
func (hc *Context) Err() error {
	if hc.ctx.Err() == nil {
		return nil
	}
	return core.Cancelled(context.Cause(hc.ctx))
}

// Redirector returns the continuation redirector bound to hc.
func (hc *Context) Redirector() *Redirector { return hc.redirector }

// Previous returns the context that was current in the caller's
// context.Context when hc was created, if any.
func (hc *Context) Previous() *Context { return hc.prev }

// IsHostGoroutine reports whether the caller runs on the host goroutine.
func (hc *Context) IsHostGoroutine() bool { return util.GoroutineID() == hc.hostGID }

// IsClosed reports whether the context stopped accepting actions.
func (hc *Context) IsClosed() bool { return hc.state.Load() != contextOpen }

// IsDisposed reports whether the context was torn down.
func (hc *Context) IsDisposed() bool { return hc.state.Load() == contextDisposed }

// Pending returns the number of queued actions.
func (hc *Context) Pending() int { return hc.queue.len() }

// Enqueue appends a to the queue. It fails with a UsageError once the
// context is closed.
func (hc *Context) Enqueue(a Action) error {
	if !hc.queue.push(a) {
		return core.NewUsageError("enqueue", "execution context is closed")
	}
	hc.observer.ActionEnqueued(hc.stage)
	hc.logger.Debug("Action enqueued", "context_id", hc.id, "action_id", a.ID())
	return nil
}

// Drain returns the in-order sequence of queued actions. The sequence blocks
// while the queue is empty and ends once the context is closed and empty. It
// must be consumed on the host goroutine.
func (hc *Context) Drain() (iter.Seq[Action], error) {
	if hc.IsDisposed() {
		return nil, core.NewUsageError("drain", "execution context is disposed")
	}
	if !hc.IsHostGoroutine() {
		return nil, core.NewUsageError("drain", "the queue can only be drained on the host goroutine")
	}
	return hc.queue.all(), nil
}

// Close marks that no further actions will be enqueued. Queued actions are
// still delivered by Drain. Close is idempotent.
func (hc *Context) Close() {
	hc.state.CompareAndSwap(contextOpen, contextClosed)
	hc.queue.close()
}

// Cancel requests cancellation of the stage and of every action linked to
// it. A nil cause records context.Canceled. Cancel is idempotent and safe
// from any goroutine.
func (hc *Context) Cancel(cause error) {
	hc.cancelOnce.Do(func() {
		if cause == nil {
			cause = context.Canceled
		}
		hc.cancel(cause)
		hc.observer.CancellationRequested(hc.stage)
		hc.logger.Debug("Cancellation requested", "context_id", hc.id, "cause", cause.Error())
	})
}

// Faults returns the errors recorded while invoking actions that nobody
// awaits, plus any host halted signal observed.
func (hc *Context) Faults() []error {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return append([]error(nil), hc.faults...)
}

func (hc *Context) recordFault(err error) {
	hc.mu.Lock()
	hc.faults = append(hc.faults, err)
	hc.mu.Unlock()
}

// haltObserved stops the whole stage once the host refused output.
func (hc *Context) haltObserved(err error) {
	hc.recordFault(err)
	hc.Cancel(err)
}

// Dispose tears the context down. It must run on the host goroutine. An
// unclosed context is closed and cancelled first, and leftover actions are
// resolved as cancelled. Dispose is idempotent.
func (hc *Context) Dispose() error {
	if !hc.IsHostGoroutine() {
		return core.NewUsageError("dispose", "execution context can only be disposed on the host goroutine")
	}
	if hc.state.Load() == contextDisposed {
		return nil
	}
	if !hc.queue.isClosed() {
		hc.Cancel(core.NewUsageError("dispose", "execution context disposed before it was closed"))
		hc.Close()
	}
	for a := range hc.queue.all() {
		a.Invoke()
	}
	hc.state.Store(contextDisposed)
	if hc.registry != nil {
		hc.registry.Unregister(hc.owner, hc)
	}
	hc.cancel(context.Canceled)
	hc.observer.ContextDisposed(hc.stage)
	hc.logger.Debug("Execution context disposed", "context_id", hc.id, "stage", hc.stage.String())
	return nil
}
