package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/hostbridge/core"
)

// Binding is one logic instance bound to a host for a pipeline run. Its
// lifecycle methods mirror the host's and must be called on the host
// goroutine; StopProcessing may be called from anywhere.
type Binding struct {
	id      string
	engine  *Engine
	logic   any
	host    core.Host
	stopCtx context.Context
	stop    context.CancelCauseFunc

	stopOnce sync.Once
	stopErr  error
}

// ID returns the binding identifier.
func (b *Binding) ID() string { return b.id }

// Logic returns the bound logic instance.
func (b *Binding) Logic() any { return b.logic }

// Host returns the bound host.
func (b *Binding) Host() core.Host { return b.host }

// Stopped reports whether a stop was requested.
func (b *Binding) Stopped() bool { return b.stopCtx.Err() != nil }

// BeginProcessing runs the begin stage.
func (b *Binding) BeginProcessing(ctx context.Context) error {
	return b.run(ctx, core.StageBegin, nil)
}

// ProcessRecord binds input (when the logic is an InputBinder) and runs the
// process stage.
func (b *Binding) ProcessRecord(ctx context.Context, input any) error {
	if binder, ok := b.logic.(InputBinder); ok {
		if err := binder.BindInput(input); err != nil {
			return fmt.Errorf("bind input: %w", err)
		}
	}
	return b.run(ctx, core.StageProcess, input)
}

// EndProcessing runs the end stage and releases the binding.
func (b *Binding) EndProcessing(ctx context.Context) error {
	defer b.Close()
	return b.run(ctx, core.StageEnd, nil)
}

// StopProcessing cancels the running stage and every later one. Only the
// first call has an effect.
func (b *Binding) StopProcessing() error {
	b.stopOnce.Do(func() {
		b.stop(core.ErrStopRequested)
		b.stopErr = b.engine.stop(b.id, b.logic)
	})
	return b.stopErr
}

// Close releases the binding without running further stages.
func (b *Binding) Close() {
	b.engine.release(b.id)
}

func (b *Binding) run(ctx context.Context, stage core.Stage, input any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	if b.stopCtx.Err() != nil {
		cancel(context.Cause(b.stopCtx))
	}
	unlink := context.AfterFunc(b.stopCtx, func() { cancel(context.Cause(b.stopCtx)) })
	defer unlink()

	return b.engine.runStage(ctx, b.id, b.logic, b.host, stage, input)
}
