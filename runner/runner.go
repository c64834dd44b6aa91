package runner

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"slices"
	"sync"

	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/engine"
	"github.com/hupe1980/hostbridge/internal/util"
	"github.com/hupe1980/hostbridge/logging"
)

// AffinityBinder is implemented by hosts that pin themselves to the
// goroutine calling Bind.
type AffinityBinder interface {
	Bind()
}

// Halter is implemented by hosts that can be told to refuse further output.
type Halter interface {
	Halt()
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Engine runs the stages. Defaults to engine.New with Logger.
	Engine *engine.Engine
	// HaltOnCancel also halts the host (when it is a Halter) on Cancel.
	HaltOnCancel bool
	// Logging services.
	Logger logging.Logger
}

type activeRun struct {
	binding *engine.Binding
	cancel  context.CancelFunc
}

// Runner drives one logic instance against one host. Public methods are
// safe for concurrent use.
type Runner struct {
	logic        any
	host         core.Host
	engine       *engine.Engine
	haltOnCancel bool
	logger       logging.Logger

	activeRuns map[string]*activeRun
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(logic any, host core.Host, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Engine == nil {
		opts.Engine = engine.New(func(o *engine.Options) { o.Logger = opts.Logger })
	}

	return &Runner{
		logic:        logic,
		host:         host,
		engine:       opts.Engine,
		haltOnCancel: opts.HaltOnCancel,
		logger:       opts.Logger,
		activeRuns:   make(map[string]*activeRun),
	}
}

// Inputs adapts a list of input units for Run.
func Inputs(vals ...any) iter.Seq[any] { return slices.Values(vals) }

// Run starts an asynchronous pipeline run. The returned channel yields the
// run's error, if any, and is closed when the run finished. Cancelling ctx
// requests a stop, like Cancel.
func (r *Runner) Run(ctx context.Context, inputs iter.Seq[any]) (string, <-chan error) {
	runID := util.NewID()
	errorsCh := make(chan error, 1)

	ctx, cancel := context.WithCancel(ctx)
	b := r.engine.Bind(r.logic, r.host)
	r.mu.Lock()
	r.activeRuns[runID] = &activeRun{binding: b, cancel: cancel}
	r.mu.Unlock()

	stopOnCancel := context.AfterFunc(ctx, func() {
		if err := b.StopProcessing(); err != nil {
			r.logger.Warn("Stop callback failed", "run_id", runID, "error", err.Error())
		}
	})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			stopOnCancel()
			cancel()
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()
			close(errorsCh)
		}()

		if binder, ok := r.host.(AffinityBinder); ok {
			binder.Bind()
		}
		r.logger.Debug("Run started", "run_id", runID, "binding_id", b.ID())
		if err := r.pipeline(ctx, b, inputs); err != nil {
			r.logger.Error("Run failed", "run_id", runID, "error", err.Error())
			errorsCh <- err
			return
		}
		r.logger.Debug("Run completed", "run_id", runID, "stopped", b.Stopped())
	}()

	return runID, errorsCh
}

// RunSync runs the pipeline and waits for it.
func (r *Runner) RunSync(ctx context.Context, inputs iter.Seq[any]) error {
	_, errorsCh := r.Run(ctx, inputs)
	return <-errorsCh
}

// Cancel requests a stop of a running run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	run, exists := r.activeRuns[runID]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	if h, ok := r.host.(Halter); ok && r.haltOnCancel {
		h.Halt()
	}
	err := run.binding.StopProcessing()
	run.cancel()

	return err
}

// Active returns the number of runs in progress.
func (r *Runner) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activeRuns)
}

// pipeline calls the lifecycle stages in host order. A stop ends the run
// silently before the next stage; a failing stage ends it with its error.
func (r *Runner) pipeline(ctx context.Context, b *engine.Binding, inputs iter.Seq[any]) error {
	defer b.Close()

	if err := b.BeginProcessing(ctx); err != nil {
		return err
	}
	if inputs != nil {
		for in := range inputs {
			if b.Stopped() {
				return nil
			}
			if err := b.ProcessRecord(ctx, in); err != nil {
				return err
			}
		}
	}
	if b.Stopped() {
		return nil
	}
	return b.EndProcessing(ctx)
}
