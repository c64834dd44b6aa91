package metrics

import (
	"sync"
	"time"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
)

// Snapshot is a point in time copy of Counters.
type Snapshot struct {
	ContextsCreated  int
	ContextsDisposed int
	ActionsEnqueued  int
	ActionsInvoked   map[bridge.Outcome]int
	InlineCalls      int
	Cancellations    int
	StagesSkipped    map[core.Stage]int
	StagesCompleted  map[core.Stage]int
	StageFailures    int
	Transitions      []bridge.StageState
}

// QueueOperations returns the number of actions that went through a queue.
func (s Snapshot) QueueOperations() int { return s.ActionsEnqueued }

// Counters is an in-memory bridge.Observer.
type Counters struct {
	mu sync.Mutex
	s  Snapshot
}

var _ bridge.Observer = (*Counters)(nil)

// NewCounters creates zeroed counters.
func NewCounters() *Counters {
	return &Counters{s: Snapshot{
		ActionsInvoked:  map[bridge.Outcome]int{},
		StagesSkipped:   map[core.Stage]int{},
		StagesCompleted: map[core.Stage]int{},
	}}
}

// Snapshot returns a copy of the current counters.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.s
	out.ActionsInvoked = copyMap(c.s.ActionsInvoked)
	out.StagesSkipped = copyMap(c.s.StagesSkipped)
	out.StagesCompleted = copyMap(c.s.StagesCompleted)
	out.Transitions = append([]bridge.StageState(nil), c.s.Transitions...)
	return out
}

func copyMap[K comparable](m map[K]int) map[K]int {
	out := make(map[K]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (c *Counters) update(fn func(s *Snapshot)) {
	c.mu.Lock()
	fn(&c.s)
	c.mu.Unlock()
}

func (c *Counters) ContextCreated(core.Stage) {
	c.update(func(s *Snapshot) { s.ContextsCreated++ })
}

func (c *Counters) ContextDisposed(core.Stage) {
	c.update(func(s *Snapshot) { s.ContextsDisposed++ })
}

func (c *Counters) ActionEnqueued(core.Stage) {
	c.update(func(s *Snapshot) { s.ActionsEnqueued++ })
}

func (c *Counters) ActionInvoked(_ core.Stage, outcome bridge.Outcome, _ time.Duration) {
	c.update(func(s *Snapshot) { s.ActionsInvoked[outcome]++ })
}

func (c *Counters) InlineCall(core.Stage) {
	c.update(func(s *Snapshot) { s.InlineCalls++ })
}

func (c *Counters) CancellationRequested(core.Stage) {
	c.update(func(s *Snapshot) { s.Cancellations++ })
}

func (c *Counters) StageSkipped(stage core.Stage) {
	c.update(func(s *Snapshot) { s.StagesSkipped[stage]++ })
}

func (c *Counters) StageTransition(_ core.Stage, state bridge.StageState) {
	c.update(func(s *Snapshot) { s.Transitions = append(s.Transitions, state) })
}

func (c *Counters) StageCompleted(stage core.Stage, _ time.Duration, err error) {
	c.update(func(s *Snapshot) {
		s.StagesCompleted[stage]++
		if err != nil {
			s.StageFailures++
		}
	})
}
