package bridge

import (
	"context"
	"testing"

	"github.com/hupe1980/hostbridge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type beginOnly struct{ calls int }

func (b *beginOnly) BeginProcessing(context.Context, *Context) error {
	b.calls++
	return nil
}

type allStages struct{ declared core.StageSet }

func (allStages) BeginProcessing(context.Context, *Context) error { return nil }
func (allStages) ProcessRecord(context.Context, *Context) error   { return nil }
func (allStages) EndProcessing(context.Context, *Context) error   { return nil }
func (a allStages) DeclaredStages() core.StageSet                 { return a.declared }

func TestAccessor_DetectsImplementedStages(t *testing.T) {
	acc := NewAccessor()
	logic := &beginOnly{}

	caps := acc.Capabilities(logic)
	assert.True(t, caps.Implements(core.StageBegin))
	assert.False(t, caps.Implements(core.StageProcess))
	assert.False(t, caps.Implements(core.StageEnd))

	invoke, ok := caps.Invoker(core.StageBegin)
	require.True(t, ok)
	require.NoError(t, invoke(logic, context.Background(), nil))
	assert.Equal(t, 1, logic.calls)

	_, ok = caps.Invoker(core.StageEnd)
	assert.False(t, ok)
	_, ok = caps.Invoker(core.StageStop)
	assert.False(t, ok)
}

func TestAccessor_ResolvesOncePerType(t *testing.T) {
	acc := NewAccessor()
	for i := 0; i < 10; i++ {
		acc.Capabilities(&beginOnly{})
	}
	acc.Capabilities(&Funcs{})
	acc.Capabilities(&Funcs{Begin: func(context.Context, *Context) error { return nil }})

	assert.Equal(t, int64(2), acc.Resolutions())
}

func TestAccessor_DeclaredStagesOverrideDetection(t *testing.T) {
	acc := NewAccessor()

	caps := acc.Capabilities(allStages{declared: core.NewStageSet(core.StageEnd)})
	assert.Equal(t, core.NewStageSet(core.StageEnd), caps.Stages())

	caps = acc.Capabilities(allStages{declared: core.NewStageSet(core.StageBegin, core.StageProcess)})
	assert.Equal(t, core.NewStageSet(core.StageBegin, core.StageProcess), caps.Stages())
	assert.Equal(t, int64(1), acc.Resolutions())
}

func TestFuncs_DeclaresNonNilStages(t *testing.T) {
	noop := func(context.Context, *Context) error { return nil }
	f := &Funcs{Process: noop}

	caps := NewAccessor().Capabilities(f)
	assert.Equal(t, core.NewStageSet(core.StageProcess), caps.Stages())

	require.NoError(t, f.BindInput("unit"))
	assert.Equal(t, "unit", f.Input())

	stopped := false
	f.Stop = func() { stopped = true }
	f.StopProcessing()
	assert.True(t, stopped)
}
