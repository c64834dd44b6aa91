package bridge

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/internal/util"
	"github.com/hupe1980/hostbridge/logging"
)

// Action is a unit of work consumed by the host goroutine.
type Action interface {
	// ID returns a sortable identifier used in logs.
	ID() string
	// Invoke runs the work at most once and never panics.
	Invoke()
}

// WorkFunc is host-affined work. ctx is cancelled when either the execution
// context or the caller's context is cancelled.
type WorkFunc[A, R any] func(ctx context.Context, h core.Host, arg A) (R, error)

const (
	actionPending int32 = iota
	actionRunning
	actionCancelled
	actionFinished
)

// PendingAction is a deferred invocation of work against the host with a
// single argument. Its Future resolves under every outcome, including when
// the action is cancelled before it ran.
type PendingAction[A, R any] struct {
	id     string
	hc     *Context
	work   WorkFunc[A, R]
	arg    A
	ctx    context.Context
	post   func()
	future *Future[R]
	state  atomic.Int32
}

// NewAction builds an action bound to hc whose cancellation is linked to both
// hc and ctx. post, if not nil, runs after the future resolved.
func NewAction[A, R any](ctx context.Context, hc *Context, work WorkFunc[A, R], arg A, post func()) *PendingAction[A, R] {
	if ctx == nil {
		ctx = context.Background()
	}
	linked, cancel := context.WithCancelCause(hc.ctx)
	stopCaller := context.AfterFunc(ctx, func() { cancel(context.Cause(ctx)) })

	a := &PendingAction[A, R]{
		id:     util.NewActionID(),
		hc:     hc,
		work:   work,
		arg:    arg,
		ctx:    linked,
		future: newFuture[R](hc.hostGID),
	}
	stopEarly := context.AfterFunc(linked, a.cancelPending)
	a.post = func() {
		stopEarly()
		stopCaller()
		cancel(nil)
		if post != nil {
			post()
		}
	}
	return a
}

// ID implements Action.
func (a *PendingAction[A, R]) ID() string { return a.id }

// Future returns the completion slot.
func (a *PendingAction[A, R]) Future() *Future[R] { return a.future }

// Invoke implements Action. Work whose context is already cancelled is
// skipped and resolves as cancelled. Errors and panics are captured in the
// future. The post action runs on every path.
func (a *PendingAction[A, R]) Invoke() {
	start := time.Now()
	var (
		value R
		err   error
	)
	defer a.post()
	if !a.state.CompareAndSwap(actionPending, actionRunning) {
		if a.state.Load() == actionCancelled {
			a.hc.observer.ActionInvoked(a.hc.stage, OutcomeCancelled, 0)
		}
		return
	}
	defer a.state.Store(actionFinished)

	if a.ctx.Err() != nil {
		err = core.Cancelled(context.Cause(a.ctx))
	} else {
		value, err = a.run()
	}
	if core.IsHostHalted(err) {
		a.hc.haltObserved(err)
	}
	a.future.resolve(value, err)
	a.hc.observer.ActionInvoked(a.hc.stage, outcomeOf(err), time.Since(start))
	if al, ok := a.hc.logger.(logging.ActionLogger); ok {
		al.LogAction(a.id, outcomeOf(err).String(), time.Since(start))
	}
}

func (a *PendingAction[A, R]) run() (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("action "+a.id, r)
		}
	}()
	return a.work(a.ctx, a.hc.host, a.arg)
}

// cancelPending resolves the future as cancelled while the action still
// waits in the queue. A running action is left to finish.
func (a *PendingAction[A, R]) cancelPending() {
	if a.state.CompareAndSwap(actionPending, actionCancelled) {
		var zero R
		a.future.resolve(zero, core.Cancelled(context.Cause(a.ctx)))
	}
}

// abandon finalizes an action that never reached the queue.
func (a *PendingAction[A, R]) abandon(err error) {
	defer a.post()
	a.state.CompareAndSwap(actionPending, actionFinished)
	var zero R
	a.future.resolve(zero, err)
}

func panicError(where string, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("hostbridge: %s panicked: %w", where, err)
	}
	return fmt.Errorf("hostbridge: %s panicked: %v", where, r)
}
