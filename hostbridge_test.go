package hostbridge

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/engine"
	"github.com/hupe1980/hostbridge/host"
	"github.com/hupe1980/hostbridge/hostops"
	"github.com/hupe1980/hostbridge/metrics"
	"github.com/hupe1980/hostbridge/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitTimerEmit() *bridge.Funcs {
	f := &bridge.Funcs{}
	f.Process = func(ctx context.Context, hc *bridge.Context) error {
		if err := hostops.WriteObject(ctx, "a"); err != nil {
			return err
		}
		timer := hc.Redirector().After(ctx, 10*time.Millisecond, func(ctx context.Context) error {
			return hostops.WriteObject(ctx, "b")
		})
		_, err := timer.Wait(ctx)
		return err
	}
	return f
}

func TestHostBridge_RunSync(t *testing.T) {
	counters := metrics.NewCounters()
	var stages []core.Stage
	hb := New(func(o *Options) { o.Observer = counters })
	hb.Callbacks().RegisterCallback(engine.NewFunctionCallback(engine.CallbackAfterStage,
		func(_ context.Context, cc *engine.CallbackContext) error {
			stages = append(stages, cc.Stage)
			return nil
		}))

	rec := host.NewRecorder()
	err := hb.RunSync(context.Background(), emitTimerEmit(), rec, runner.Inputs(1))
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b"}, rec.Objects())
	assert.Empty(t, rec.Violations())
	assert.Equal(t, []core.Stage{core.StageProcess}, stages)
	assert.Equal(t, 1, counters.Snapshot().ContextsCreated)
}

func TestHostBridge_CancelUnknown(t *testing.T) {
	require.Error(t, New().Cancel("nope"))
}

func TestHostBridge_Cancel(t *testing.T) {
	entered := make(chan struct{})
	f := &bridge.Funcs{
		Process: func(ctx context.Context, _ *bridge.Context) error {
			close(entered)
			<-ctx.Done()
			return ctx.Err()
		},
	}
	rec := host.NewRecorder()
	hb := New(func(o *Options) { o.HaltOnCancel = true })

	runID, errorsCh := hb.Run(context.Background(), f, rec, runner.Inputs(1))
	<-entered
	require.NoError(t, hb.Cancel(runID))

	for err := range errorsCh {
		require.NoError(t, err)
	}
	assert.True(t, rec.Halted())
	assert.Error(t, hb.Cancel(runID))
}
