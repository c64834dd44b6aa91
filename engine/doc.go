// Package engine implements the host lifecycle adapter for hostbridge.
//
// The Engine is the entry point a host integration talks to. The host owns a
// single goroutine and calls the lifecycle methods of a Binding on it, one
// at a time, in the order begin, process (once per input unit), end. A stop
// request may arrive at any time, from any goroutine.
//
// # Core Responsibilities
//
// Stage Execution:
//   - Skips stages the logic does not implement without creating a context
//   - Runs implemented stages through a bridge.StageRunner
//   - Surfaces exactly one error per failed stage; cancellation is silent
//
// Stop Handling:
//   - Cancels the live execution context of the logic instance
//   - Pre-cancels every later stage of the same binding
//   - Notifies logic implementing Stopper
//
// Extensibility:
//   - Input binding through InputBinder
//   - Callbacks before and after stages, on errors and on stop
//   - Instrumentation through a bridge.Observer (see package metrics)
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│              Host goroutine              │
//	├──────────────────────────────────────────┤
//	│ engine.Binding (begin/process/end/stop)  │
//	├──────────────────────────────────────────┤
//	│ bridge.StageRunner  ◄── bridge.Accessor  │
//	├──────────────────────────────────────────┤
//	│ bridge.Context (queue, cancellation)     │
//	└──────────────────────────────────────────┘
//
// # Usage
//
//	eng := engine.New(func(o *engine.Options) {
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	})
//	b := eng.Bind(logic, host)
//	defer b.Close()
//	if err := b.BeginProcessing(ctx); err != nil {
//	    return err
//	}
package engine
