package bridge_test

import (
	"context"
	"testing"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onOtherGoroutine(fn func() error) error {
	errCh := make(chan error, 1)
	go func() { errCh <- fn() }()
	return <-errCh
}

func TestContext_RegistryLifecycle(t *testing.T) {
	reg := bridge.NewRegistry()
	owner := new(int)
	rec := host.NewRecorder()

	hc, err := bridge.NewContext(context.Background(), reg, owner, rec, core.StageBegin)
	require.NoError(t, err)
	assert.NotEmpty(t, hc.ID())
	assert.Same(t, owner, hc.Owner())
	assert.Equal(t, core.StageBegin, hc.Stage())

	got, ok := reg.Lookup(owner)
	require.True(t, ok)
	assert.Same(t, hc, got)

	_, err = bridge.NewContext(context.Background(), reg, owner, rec, core.StageProcess)
	assert.ErrorIs(t, err, core.ErrUsage)

	hc.Close()
	got, ok = reg.Lookup(owner)
	require.True(t, ok, "a closed context stays reachable until disposed")
	assert.Same(t, hc, got)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, hc.Dispose())
	assert.True(t, hc.IsDisposed())
	assert.Zero(t, reg.Len())
	_, ok = reg.Lookup(owner)
	assert.False(t, ok)

	next, err := bridge.NewContext(context.Background(), reg, owner, rec, core.StageProcess)
	require.NoError(t, err)
	next.Close()
	require.NoError(t, next.Dispose())
}

func TestContext_RejectsIncomparableOwner(t *testing.T) {
	_, err := bridge.NewContext(context.Background(), bridge.NewRegistry(), []int{1}, host.NewRecorder(), core.StageBegin)
	assert.ErrorIs(t, err, core.ErrUsage)
}

func TestContext_UsageErrors(t *testing.T) {
	rec := host.NewRecorder()
	hc, err := bridge.NewContext(context.Background(), nil, new(int), rec, core.StageProcess)
	require.NoError(t, err)

	err = onOtherGoroutine(hc.Dispose)
	assert.ErrorIs(t, err, core.ErrUsage, "dispose off the host goroutine")

	err = onOtherGoroutine(func() error {
		_, err := hc.Drain()
		return err
	})
	assert.ErrorIs(t, err, core.ErrUsage, "drain off the host goroutine")

	err = bridge.Do(context.Background(), nil, write("x"))
	assert.ErrorIs(t, err, core.ErrUsage, "no context")

	hc.Close()
	err = onOtherGoroutine(func() error {
		return bridge.Do(context.Background(), hc, write("late"))
	})
	assert.ErrorIs(t, err, core.ErrUsage, "enqueue after close")

	require.NoError(t, hc.Dispose())
	require.NoError(t, hc.Dispose())
	err = bridge.Do(context.Background(), hc, write("disposed"))
	assert.ErrorIs(t, err, core.ErrUsage, "call on a disposed context")
	assert.Empty(t, rec.Calls())
}

func TestContext_DisposeCancelsLeftoverActions(t *testing.T) {
	rec := host.NewRecorder()
	hc, err := bridge.NewContext(context.Background(), nil, new(int), rec, core.StageProcess)
	require.NoError(t, err)

	var f *bridge.Future[struct{}]
	require.NoError(t, onOtherGoroutine(func() error {
		var err error
		f, err = bridge.Invoke(context.Background(), hc, func(_ context.Context, h core.Host) (struct{}, error) {
			return struct{}{}, h.WriteObject("never", false)
		})
		return err
	}))
	assert.Equal(t, 1, hc.Pending())

	require.NoError(t, hc.Dispose())
	assert.True(t, f.IsCancelled())
	assert.Empty(t, rec.Calls())
}

func TestContext_CancelIsIdempotent(t *testing.T) {
	hc, err := bridge.NewContext(context.Background(), nil, new(int), host.NewRecorder(), core.StageProcess)
	require.NoError(t, err)
	defer func() {
		hc.Close()
		_ = hc.Dispose()
	}()

	assert.NoError(t, hc.Err())
	hc.Cancel(nil)
	hc.Cancel(core.ErrHostHalted)
	<-hc.Done()

	assert.True(t, core.IsCancellation(hc.Err()))
	assert.False(t, core.IsHostHalted(hc.Err()), "the first cause sticks")
}

func TestContext_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	hc, err := bridge.NewContext(parent, nil, new(int), host.NewRecorder(), core.StageProcess)
	require.NoError(t, err)

	cancel()
	<-hc.Done()
	assert.True(t, core.IsCancellation(hc.Err()))

	hc.Close()
	require.NoError(t, hc.Dispose())
}

func TestContext_FromContextAndPrevious(t *testing.T) {
	outer, err := bridge.NewContext(context.Background(), nil, new(int), host.NewRecorder(), core.StageProcess)
	require.NoError(t, err)

	got, ok := bridge.FromContext(outer.Ctx())
	require.True(t, ok)
	assert.Same(t, outer, got)

	inner, err := bridge.NewContext(outer.Ctx(), nil, new(int), host.NewRecorder(), core.StageProcess)
	require.NoError(t, err)
	assert.Same(t, outer, inner.Previous())

	got, _ = bridge.FromContext(inner.Ctx())
	assert.Same(t, inner, got)

	_, ok = bridge.FromContext(context.Background())
	assert.False(t, ok)

	for _, hc := range []*bridge.Context{inner, outer} {
		hc.Close()
		require.NoError(t, hc.Dispose())
	}
}

func TestFuture(t *testing.T) {
	f := bridge.Resolved(7, nil)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.False(t, f.IsCancelled())

	c := bridge.Resolved(0, core.Cancelled(nil))
	assert.True(t, c.IsCancelled())
}

func TestFuture_ResultBeforeResolution(t *testing.T) {
	hc, err := bridge.NewContext(context.Background(), nil, new(int), host.NewRecorder(), core.StageProcess)
	require.NoError(t, err)

	var f *bridge.Future[struct{}]
	require.NoError(t, onOtherGoroutine(func() error {
		var err error
		f, err = hc.Redirector().Schedule(context.Background(), func(context.Context) error { return nil })
		return err
	}))
	_, err = f.Result()
	assert.ErrorIs(t, err, core.ErrUsage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waitErr := onOtherGoroutine(func() error {
		_, err := f.Wait(ctx)
		return err
	})
	assert.True(t, core.IsCancellation(waitErr))

	hc.Close()
	seq, err := hc.Drain()
	require.NoError(t, err)
	for a := range seq {
		a.Invoke()
	}
	_, err = f.Result()
	assert.NoError(t, err)
	require.NoError(t, hc.Dispose())
}
