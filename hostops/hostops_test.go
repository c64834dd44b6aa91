package hostops

import (
	"context"
	"testing"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runProcess(t *testing.T, rec *host.Recorder, fn bridge.StageFunc) error {
	t.Helper()
	runner := bridge.NewStageRunner()
	return runner.Run(context.Background(), &bridge.Funcs{Process: fn}, rec, core.StageProcess)
}

func TestHostOps_AllOperations(t *testing.T) {
	rec := host.NewRecorder(func(o *host.Options) { o.ToAll = true })
	rec.Bind()

	var (
		sp core.ShouldProcessResult
		sc core.ShouldContinueResult
	)
	err := runProcess(t, rec, func(ctx context.Context, _ *bridge.Context) error {
		steps := []func() error{
			func() error { return WriteObject(ctx, "obj") },
			func() error { return WriteObjects(ctx, []int{1, 2}) },
			func() error { return WriteError(ctx, core.ErrorRecord{ID: "E1"}) },
			func() error { return WriteWarning(ctx, "warn") },
			func() error { return WriteVerbose(ctx, "verbose") },
			func() error { return WriteDebug(ctx, "debug") },
			func() error { return WriteInformation(ctx, core.InformationRecord{MessageData: "info"}) },
			func() error { return WriteProgress(ctx, core.NewProgressRecord(1, "act", "status")) },
			func() (err error) {
				sp, err = ShouldProcess(ctx, "target", "remove")
				return err
			},
			func() (err error) {
				sc, err = ShouldContinue(ctx, "sure?", "remove", &core.ShouldContinueState{})
				return err
			},
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		host.OpObject, host.OpObject, host.OpObject, host.OpError, host.OpWarning, host.OpVerbose,
		host.OpDebug, host.OpInformation, host.OpProgress, host.OpShouldProcess, host.OpShouldContinue,
	}, rec.Ops())
	assert.Equal(t, []any{"obj", 1, 2}, rec.Objects())
	assert.True(t, sp.Result)
	assert.True(t, sc.YesToAll)
	assert.Empty(t, rec.Violations())
}

func TestHostOps_FailFastOnCancelledContext(t *testing.T) {
	rec := host.NewRecorder()
	var opErr error
	err := runProcess(t, rec, func(ctx context.Context, _ *bridge.Context) error {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		opErr = WriteObject(cctx, "never")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, core.IsCancellation(opErr))
	assert.Empty(t, rec.Calls())
}

func TestHostOps_RequireExecutionContext(t *testing.T) {
	err := WriteWarning(context.Background(), "nowhere")
	assert.ErrorIs(t, err, core.ErrUsage)
}
