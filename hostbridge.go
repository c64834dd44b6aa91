// Package hostbridge provides a high-level façade over the Engine and the
// pipeline runner, enabling asynchronous logic to drive a host whose API may
// only be called from a single goroutine. Most applications interact with
// this package by:
//  1. Creating a HostBridge via New() (optionally plugging a logger, an
//     observer such as metrics.Collector, or stage callbacks)
//  2. Running a logic instance against a host (Run or RunSync)
//  3. Stopping it from any goroutine (Cancel or Stop)
//
// The façade delegates stage execution to engine.Engine and pipeline driving
// to runner.Runner while keeping setup concise. Inside stages, logic reaches
// the host through package hostops or the bridge.Call family.
package hostbridge

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/engine"
	"github.com/hupe1980/hostbridge/logging"
	"github.com/hupe1980/hostbridge/runner"
)

// Options configures the HostBridge instance.
type Options struct {
	// Engine configuration.
	EngineConfig engine.Config

	// HaltOnCancel also halts hosts that support it when a run is cancelled.
	HaltOnCancel bool

	// Observer receives instrumentation callbacks (defaults to no-op).
	Observer bridge.Observer

	// Callbacks holds stage hooks (defaults to an empty manager).
	Callbacks *engine.CallbackManager

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// HostBridge is the high-level façade aggregating the engine and its runs.
type HostBridge struct {
	opts   Options
	engine *engine.Engine

	runs map[string]*runner.Runner
	mu   sync.Mutex
}

// New creates a new HostBridge instance with optional overrides.
func New(optFns ...func(o *Options)) *HostBridge {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Observer:     bridge.NopObserver{},
		Callbacks:    engine.NewCallbackManager(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Observer = opts.Observer
		o.Callbacks = opts.Callbacks
		o.Logger = opts.Logger
	})

	return &HostBridge{opts: opts, engine: e, runs: make(map[string]*runner.Runner)}
}

// Engine returns the underlying engine.
func (m *HostBridge) Engine() *engine.Engine { return m.engine }

// Callbacks returns the stage hook manager.
func (m *HostBridge) Callbacks() *engine.CallbackManager { return m.engine.Callbacks() }

// Runner creates a runner for logic and host sharing this bridge's engine.
func (m *HostBridge) Runner(logic any, host core.Host) *runner.Runner {
	return runner.New(logic, host, func(o *runner.Options) {
		o.Engine = m.engine
		o.HaltOnCancel = m.opts.HaltOnCancel
		o.Logger = m.opts.Logger
	})
}

// Run starts an asynchronous pipeline run of logic against host, returning
// the run id and a channel yielding its error.
func (m *HostBridge) Run(ctx context.Context, logic any, host core.Host, inputs iter.Seq[any]) (string, <-chan error) {
	r := m.Runner(logic, host)
	runID, errorsCh := r.Run(ctx, inputs)

	m.mu.Lock()
	m.runs[runID] = r
	m.mu.Unlock()

	out := make(chan error, 1)
	go func() {
		defer close(out)
		defer func() {
			m.mu.Lock()
			delete(m.runs, runID)
			m.mu.Unlock()
		}()
		for err := range errorsCh {
			out <- err
		}
	}()
	return runID, out
}

// RunSync runs the pipeline and waits for it. If ctx ends first a stop is
// requested and RunSync still waits for the run to wind down.
func (m *HostBridge) RunSync(ctx context.Context, logic any, host core.Host, inputs iter.Seq[any]) error {
	_, errorsCh := m.Run(ctx, logic, host, inputs)
	return <-errorsCh
}

// Cancel requests a stop of a run started with Run.
func (m *HostBridge) Cancel(runID string) error {
	m.mu.Lock()
	r, ok := m.runs[runID]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	return r.Cancel(runID)
}

// Stop cancels the live execution context of logic, if any.
func (m *HostBridge) Stop(logic any) error { return m.engine.Stop(logic) }
