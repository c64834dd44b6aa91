package metrics

import (
	"time"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
)

// Multi forwards every callback to each observer in order.
type Multi []bridge.Observer

var _ bridge.Observer = Multi(nil)

func (m Multi) ContextCreated(stage core.Stage) {
	for _, o := range m {
		o.ContextCreated(stage)
	}
}

func (m Multi) ContextDisposed(stage core.Stage) {
	for _, o := range m {
		o.ContextDisposed(stage)
	}
}

func (m Multi) ActionEnqueued(stage core.Stage) {
	for _, o := range m {
		o.ActionEnqueued(stage)
	}
}

func (m Multi) ActionInvoked(stage core.Stage, outcome bridge.Outcome, d time.Duration) {
	for _, o := range m {
		o.ActionInvoked(stage, outcome, d)
	}
}

func (m Multi) InlineCall(stage core.Stage) {
	for _, o := range m {
		o.InlineCall(stage)
	}
}

func (m Multi) CancellationRequested(stage core.Stage) {
	for _, o := range m {
		o.CancellationRequested(stage)
	}
}

func (m Multi) StageSkipped(stage core.Stage) {
	for _, o := range m {
		o.StageSkipped(stage)
	}
}

func (m Multi) StageTransition(stage core.Stage, state bridge.StageState) {
	for _, o := range m {
		o.StageTransition(stage, state)
	}
}

func (m Multi) StageCompleted(stage core.Stage, d time.Duration, err error) {
	for _, o := range m {
		o.StageCompleted(stage, d, err)
	}
}
