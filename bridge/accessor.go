package bridge

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hostbridge/core"
)

// StageFunc is an asynchronous stage method. It runs on its own goroutine
// and reaches the host only through hc.
type StageFunc func(ctx context.Context, hc *Context) error

// BeginProcessor is implemented by logic taking part in the begin stage.
type BeginProcessor interface {
	BeginProcessing(ctx context.Context, hc *Context) error
}

// RecordProcessor is implemented by logic taking part in the process stage.
type RecordProcessor interface {
	ProcessRecord(ctx context.Context, hc *Context) error
}

// EndProcessor is implemented by logic taking part in the end stage.
type EndProcessor interface {
	EndProcessing(ctx context.Context, hc *Context) error
}

// StageDeclarer lets logic state which stages it takes part in. It overrides
// detection: a declared stage runs whenever its method exists, even with an
// empty body, and an undeclared one is skipped.
type StageDeclarer interface {
	DeclaredStages() core.StageSet
}

// Invoker calls one stage method on a logic value.
type Invoker func(logic any, ctx context.Context, hc *Context) error

// Capabilities describes the stages a logic type implements.
type Capabilities struct {
	Type     reflect.Type
	stages   core.StageSet
	invokers [3]Invoker
}

// Implements reports whether stage runs for this logic.
func (c *Capabilities) Implements(stage core.Stage) bool { return c.stages.Has(stage) }

// Stages returns the set of implemented stages.
func (c *Capabilities) Stages() core.StageSet { return c.stages }

// Invoker returns the stage method invoker, or false when the stage is not
// implemented.
func (c *Capabilities) Invoker(stage core.Stage) (Invoker, bool) {
	if !c.stages.Has(stage) || int(stage) >= len(c.invokers) {
		return nil, false
	}
	return c.invokers[stage], true
}

func (c *Capabilities) restrict(declared core.StageSet) *Capabilities {
	out := *c
	out.stages = c.stages & declared
	return &out
}

// Accessor resolves Capabilities once per concrete type and caches them for
// the lifetime of the accessor.
type Accessor struct {
	mu          sync.RWMutex
	cache       map[reflect.Type]*Capabilities
	resolutions atomic.Int64
}

// NewAccessor creates an empty accessor.
func NewAccessor() *Accessor {
	return &Accessor{cache: make(map[reflect.Type]*Capabilities)}
}

// DefaultAccessor is shared by runners that do not configure their own.
var DefaultAccessor = NewAccessor()

// Capabilities returns the stages implemented by logic. A StageDeclarer
// narrows the result per instance.
func (a *Accessor) Capabilities(logic any) *Capabilities {
	caps := a.forType(logic)
	if d, ok := logic.(StageDeclarer); ok {
		return caps.restrict(d.DeclaredStages())
	}
	return caps
}

// Resolutions returns how many types were resolved so far.
func (a *Accessor) Resolutions() int64 { return a.resolutions.Load() }

func (a *Accessor) forType(logic any) *Capabilities {
	t := reflect.TypeOf(logic)
	a.mu.RLock()
	caps, ok := a.cache[t]
	a.mu.RUnlock()
	if ok {
		return caps
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if caps, ok := a.cache[t]; ok {
		return caps
	}
	caps = resolve(t, logic)
	a.cache[t] = caps
	a.resolutions.Add(1)
	return caps
}

func resolve(t reflect.Type, logic any) *Capabilities {
	caps := &Capabilities{Type: t}
	if _, ok := logic.(BeginProcessor); ok {
		caps.stages = caps.stages.Add(core.StageBegin)
		caps.invokers[core.StageBegin] = func(l any, ctx context.Context, hc *Context) error {
			return l.(BeginProcessor).BeginProcessing(ctx, hc)
		}
	}
	if _, ok := logic.(RecordProcessor); ok {
		caps.stages = caps.stages.Add(core.StageProcess)
		caps.invokers[core.StageProcess] = func(l any, ctx context.Context, hc *Context) error {
			return l.(RecordProcessor).ProcessRecord(ctx, hc)
		}
	}
	if _, ok := logic.(EndProcessor); ok {
		caps.stages = caps.stages.Add(core.StageEnd)
		caps.invokers[core.StageEnd] = func(l any, ctx context.Context, hc *Context) error {
			return l.(EndProcessor).EndProcessing(ctx, hc)
		}
	}
	return caps
}
