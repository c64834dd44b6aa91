package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/internal/util"
	"github.com/hupe1980/hostbridge/logging"
)

// Config defines tuning parameters for the Engine's operational behavior.
//
// Additional concerns such as metrics collection should be configured via
// functional options (Observer) rather than expanding this struct.
//
// Example:
//
//	cfg := Config{
//	    Inline: false,
//	}
type Config struct {
	// Inline runs host calls that are issued on the host goroutine in place
	// instead of rejecting them. Disabling it is only useful to detect logic
	// that touches the host from inside host-affined work.
	Inline bool
}

// DefaultConfig provides the default configuration values.
//
// Configuration values:
//   - Inline: true (calls issued on the host goroutine never deadlock)
var DefaultConfig = Config{
	Inline: true,
}

// Options configures an Engine instance using the functional options pattern.
//
// Every field has a default so New() is immediately usable:
//
//	eng := New(func(o *Options) {
//	    o.Logger = logger
//	    o.Observer = collector
//	})
type Options struct {
	// Config contains operational parameters for the engine behavior.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Registry tracks the live execution context of each logic instance.
	// Defaults to a registry private to the engine.
	Registry *bridge.Registry

	// Accessor resolves the stages a logic type implements.
	// Defaults to bridge.DefaultAccessor.
	Accessor *bridge.Accessor

	// Observer receives instrumentation callbacks (see package metrics).
	// Defaults to bridge.NopObserver.
	Observer bridge.Observer

	// Callbacks holds stage lifecycle hooks.
	// Defaults to an empty manager.
	Callbacks *CallbackManager

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil to ensure no logging dependencies.
	Logger logging.Logger
}

// InputBinder is implemented by logic that receives the current input unit
// before each process stage. BindInput runs on the host goroutine.
type InputBinder interface {
	BindInput(input any) error
}

// Stopper is implemented by logic that wants to hear about stop requests.
// StopProcessing is called synchronously on the goroutine requesting the
// stop and must not block.
type Stopper interface {
	StopProcessing()
}

// Engine adapts the host's synchronous lifecycle (begin, process, end, stop)
// to asynchronous user logic.
//
// Core Responsibilities:
//   - Binding: associates a logic instance with a host for one pipeline run
//   - Stage execution: runs each implemented stage through a bridge.StageRunner
//     on the calling (host) goroutine, skipping unimplemented ones
//   - Stop handling: cancels the live execution context of an instance from
//     any goroutine and notifies Stopper logic
//   - Hooks: runs registered callbacks around stages
//
// Concurrency Model:
//   - Lifecycle methods must be called on the host goroutine
//   - Stop may be called from any goroutine
//   - Binding tracking is guarded by a mutex
//
// Example Usage:
//
//	eng := New()
//	b := eng.Bind(logic, host)
//	if err := b.BeginProcessing(ctx); err != nil {
//	    return err
//	}
//	for _, in := range inputs {
//	    if err := b.ProcessRecord(ctx, in); err != nil {
//	        return err
//	    }
//	}
//	return b.EndProcessing(ctx)
type Engine struct {
	config    Config
	runner    *bridge.StageRunner
	registry  *bridge.Registry
	accessor  *bridge.Accessor
	callbacks *CallbackManager
	logger    logging.Logger

	bindings   map[string]*Binding
	bindingsMu sync.RWMutex
}

// New creates a new Engine instance with sensible defaults and optional configuration.
//
// Default Services:
//   - Registry: private bridge.Registry
//   - Accessor: bridge.DefaultAccessor
//   - Observer: bridge.NopObserver
//   - Logger: No-op logger that discards all messages
//
// The returned Engine is safe for concurrent use.
func New(
	optFns ...func(o *Options),
) *Engine {
	opts := Options{
		Config:    DefaultConfig,
		Registry:  bridge.NewRegistry(),
		Accessor:  bridge.DefaultAccessor,
		Observer:  bridge.NopObserver{},
		Callbacks: NewCallbackManager(),
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = bridge.NewRegistry()
	}
	if opts.Accessor == nil {
		opts.Accessor = bridge.DefaultAccessor
	}
	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if bl, ok := opts.Logger.(*logging.BridgeLogger); ok {
		opts.Logger = bl.WithComponent("engine")
	}

	runner := bridge.NewStageRunner(func(o *bridge.RunnerOptions) {
		o.Registry = opts.Registry
		o.Accessor = opts.Accessor
		o.Observer = opts.Observer
		o.Logger = opts.Logger
		o.Inline = opts.Config.Inline
	})

	return &Engine{
		config:    opts.Config,
		runner:    runner,
		registry:  opts.Registry,
		accessor:  opts.Accessor,
		callbacks: opts.Callbacks,
		logger:    opts.Logger,
		bindings:  make(map[string]*Binding),
	}
}

// Registry returns the registry holding live execution contexts.
func (e *Engine) Registry() *bridge.Registry { return e.registry }

// Callbacks returns the callback manager.
func (e *Engine) Callbacks() *CallbackManager { return e.callbacks }

// Capabilities reports which stages logic takes part in.
func (e *Engine) Capabilities(logic any) *bridge.Capabilities {
	return e.accessor.Capabilities(logic)
}

// Context returns the live execution context of logic, if a stage is running.
func (e *Engine) Context(logic any) (*bridge.Context, bool) {
	return e.registry.Lookup(logic)
}

// Bind associates logic with host for one pipeline run. The binding is
// released by EndProcessing or Close.
func (e *Engine) Bind(logic any, host core.Host) *Binding {
	stopCtx, stop := context.WithCancelCause(context.Background())
	b := &Binding{
		id:      util.NewID(),
		engine:  e,
		logic:   logic,
		host:    host,
		stopCtx: stopCtx,
		stop:    stop,
	}
	e.bindingsMu.Lock()
	e.bindings[b.id] = b
	e.bindingsMu.Unlock()
	e.logger.Debug("Logic bound", "binding_id", b.id, "logic", fmt.Sprintf("%T", logic))
	return b
}

// Binding returns an active binding by id.
func (e *Engine) Binding(id string) (*Binding, bool) {
	e.bindingsMu.RLock()
	defer e.bindingsMu.RUnlock()
	b, ok := e.bindings[id]
	return b, ok
}

// ActiveBindings returns the number of bindings not yet released.
func (e *Engine) ActiveBindings() int {
	e.bindingsMu.RLock()
	defer e.bindingsMu.RUnlock()
	return len(e.bindings)
}

// StopBinding requests a stop of the binding with the given id.
//
// Returns:
//   - error: Non-nil if the binding id is not found
func (e *Engine) StopBinding(id string) error {
	b, ok := e.Binding(id)
	if !ok {
		return fmt.Errorf("binding %s not found", id)
	}
	return b.StopProcessing()
}

func (e *Engine) release(id string) {
	e.bindingsMu.Lock()
	delete(e.bindings, id)
	e.bindingsMu.Unlock()
}

// RunStage runs one stage of logic against host on the calling goroutine,
// which must be the host goroutine. StageStop is forwarded to Stop.
func (e *Engine) RunStage(ctx context.Context, logic any, host core.Host, stage core.Stage) error {
	if stage == core.StageStop {
		return e.Stop(logic)
	}
	return e.runStage(ctx, "", logic, host, stage, nil)
}

func (e *Engine) runStage(ctx context.Context, bindingID string, logic any, host core.Host, stage core.Stage, input any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !e.accessor.Capabilities(logic).Implements(stage) {
		return e.runner.Run(ctx, logic, host, stage)
	}

	callbackCtx := &CallbackContext{
		BindingID: bindingID,
		Logic:     logic,
		Stage:     stage,
		Input:     input,
		Metadata:  map[string]any{},
	}
	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackBeforeStage, callbackCtx); err != nil {
		return fmt.Errorf("before %s stage: %w", stage, err)
	}

	if err := e.runner.Run(ctx, logic, host, stage); err != nil {
		callbackCtx.Err = err
		if cbErr := e.callbacks.ExecuteCallbacks(ctx, CallbackOnError, callbackCtx); cbErr != nil {
			e.logger.Warn("Error callback failed", "stage", stage.String(), "error", cbErr.Error())
		}
		return err
	}

	return e.callbacks.ExecuteCallbacks(ctx, CallbackAfterStage, callbackCtx)
}

// Stop requests cancellation of the stage currently running for logic. It
// is safe to call from any goroutine and is a no-op for the bridge when no
// stage is running. Stopper logic is notified either way.
func (e *Engine) Stop(logic any) error {
	return e.stop("", logic)
}

func (e *Engine) stop(bindingID string, logic any) error {
	if hc, ok := e.registry.Lookup(logic); ok {
		hc.Cancel(core.ErrStopRequested)
		e.logger.Info("Stop requested", "binding_id", bindingID, "context_id", hc.ID(), "stage", hc.Stage().String())
	} else {
		e.logger.Debug("Stop requested without a running stage", "binding_id", bindingID)
	}
	if s, ok := logic.(Stopper); ok {
		s.StopProcessing()
	}
	return e.callbacks.ExecuteCallbacks(context.Background(), CallbackOnStop, &CallbackContext{
		BindingID: bindingID,
		Logic:     logic,
		Stage:     core.StageStop,
		Metadata:  map[string]any{},
	})
}
