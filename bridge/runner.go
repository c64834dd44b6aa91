package bridge

import (
	"context"
	"time"

	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/logging"
)

// RunnerOptions configures a StageRunner.
type RunnerOptions struct {
	// Registry tracks the live context of each logic instance. A nil
	// registry gets a private one.
	Registry *Registry
	// Accessor resolves implemented stages. Defaults to DefaultAccessor.
	Accessor *Accessor
	// Observer receives instrumentation callbacks.
	Observer Observer
	// Logger receives stage logs.
	Logger logging.Logger
	// Inline runs calls issued on the host goroutine in place.
	Inline bool
}

// StageRunner runs one lifecycle stage of a logic instance end to end.
type StageRunner struct {
	registry *Registry
	accessor *Accessor
	observer Observer
	logger   logging.Logger
	inline   bool
}

// NewStageRunner creates a StageRunner.
func NewStageRunner(optFns ...func(o *RunnerOptions)) *StageRunner {
	opts := RunnerOptions{Inline: true}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Accessor == nil {
		opts.Accessor = DefaultAccessor
	}
	return &StageRunner{
		registry: opts.Registry,
		accessor: opts.Accessor,
		observer: orNop(opts.Observer),
		logger:   logging.OrNoOp(opts.Logger),
		inline:   opts.Inline,
	}
}

// Registry returns the registry the runner registers contexts in.
func (r *StageRunner) Registry() *Registry { return r.registry }

// Accessor returns the capability accessor.
func (r *StageRunner) Accessor() *Accessor { return r.accessor }

// Run executes stage of logic. It must be called on the host goroutine. A
// stage logic does not implement returns nil without creating a context.
func (r *StageRunner) Run(ctx context.Context, logic any, host core.Host, stage core.Stage) error {
	invoke, ok := r.accessor.Capabilities(logic).Invoker(stage)
	if !ok {
		r.observer.StageSkipped(stage)
		return nil
	}
	return r.RunFunc(ctx, logic, host, stage, func(ctx context.Context, hc *Context) error {
		return invoke(logic, ctx, hc)
	})
}

// RunFunc executes fn as stage of owner. fn runs on its own goroutine while
// the calling goroutine drains the action queue. Once fn returned and every
// queued action ran, the outcome is classified: a host halted error is
// returned unchanged, cancellation yields nil and any other failure is
// returned as is.
func (r *StageRunner) RunFunc(ctx context.Context, owner any, host core.Host, stage core.Stage, fn StageFunc) (err error) {
	start := time.Now()
	r.observer.StageTransition(stage, StateNotStarted)

	hc, err := NewContext(ctx, r.registry, owner, host, stage, func(o *ContextOptions) {
		o.Observer = r.observer
		o.Logger = r.logger
		o.Inline = r.inline
	})
	if err != nil {
		return err
	}
	defer func() {
		if derr := hc.Dispose(); derr != nil {
			r.logger.Warn("Failed to dispose execution context", "context_id", hc.ID(), "error", derr.Error())
		}
		r.observer.StageTransition(stage, StateDone)
		r.observer.StageCompleted(stage, time.Since(start), err)
	}()

	done := make(chan error, 1)
	r.observer.StageTransition(stage, StateRunning)
	go func() {
		var ferr error
		defer func() {
			if rec := recover(); rec != nil {
				ferr = panicError("stage "+stage.String(), rec)
				if sl, ok := hc.logger.(logging.StackLogger); ok {
					sl.ErrorWithStack(ferr, "Stage method panicked", "context_id", hc.ID())
				}
			}
			done <- ferr
			hc.Close()
		}()
		ferr = fn(hc.ctx, hc)
	}()

	seq, err := hc.Drain()
	if err != nil {
		hc.Cancel(err)
		<-done
		return err
	}
	r.observer.StageTransition(stage, StateDraining)
	actions := 0
	for a := range seq {
		a.Invoke()
		actions++
	}

	r.observer.StageTransition(stage, StateJoining)
	userErr := <-done
	err = classifyStage(userErr, hc.Faults())

	if sl, ok := hc.logger.(logging.StageLogger); ok {
		sl.LogStage(stage.String(), actions, time.Since(start), err)
	} else if err != nil {
		r.logger.Error("Stage failed", "context_id", hc.ID(), "stage", stage.String(), "actions", actions, "error", err.Error())
	} else {
		r.logger.Debug("Stage completed", "context_id", hc.ID(), "stage", stage.String(), "actions", actions, "duration", time.Since(start))
	}
	return err
}
