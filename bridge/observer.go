package bridge

import (
	"time"

	"github.com/hupe1980/hostbridge/core"
)

// Outcome classifies how a PendingAction finished.
type Outcome int

const (
	// OutcomeSucceeded means the work ran and returned no error.
	OutcomeSucceeded Outcome = iota
	// OutcomeFailed means the work returned an error or panicked.
	OutcomeFailed
	// OutcomeCancelled means the work was skipped or observed cancellation.
	OutcomeCancelled
	// OutcomeHalted means the host reported it accepts no more output.
	OutcomeHalted
)

// String returns the outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeHalted:
		return "halted"
	default:
		return "unknown"
	}
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case core.IsHostHalted(err):
		return OutcomeHalted
	case core.IsCancellation(err):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

// StageState is the position of a StageRunner invocation in its lifecycle.
type StageState int

const (
	// StateNotStarted precedes context creation.
	StateNotStarted StageState = iota
	// StateRunning means the stage method was started.
	StateRunning
	// StateDraining means the host goroutine is consuming the action queue.
	StateDraining
	// StateJoining means the queue is exhausted and the stage method is joined.
	StateJoining
	// StateDone means the outcome was classified.
	StateDone
)

// String returns the state name.
func (s StageState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateJoining:
		return "joining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Observer receives instrumentation callbacks from contexts and runners.
// Implementations must be safe for concurrent use; ActionEnqueued and
// CancellationRequested are called from arbitrary goroutines.
type Observer interface {
	ContextCreated(stage core.Stage)
	ContextDisposed(stage core.Stage)
	ActionEnqueued(stage core.Stage)
	ActionInvoked(stage core.Stage, outcome Outcome, d time.Duration)
	InlineCall(stage core.Stage)
	CancellationRequested(stage core.Stage)
	StageSkipped(stage core.Stage)
	StageTransition(stage core.Stage, state StageState)
	StageCompleted(stage core.Stage, d time.Duration, err error)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) ContextCreated(core.Stage)                        {}
func (NopObserver) ContextDisposed(core.Stage)                       {}
func (NopObserver) ActionEnqueued(core.Stage)                        {}
func (NopObserver) ActionInvoked(core.Stage, Outcome, time.Duration) {}
func (NopObserver) InlineCall(core.Stage)                            {}
func (NopObserver) CancellationRequested(core.Stage)                 {}
func (NopObserver) StageSkipped(core.Stage)                          {}
func (NopObserver) StageTransition(core.Stage, StageState)           {}
func (NopObserver) StageCompleted(core.Stage, time.Duration, error)  {}

func orNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
