// Package hostops offers one helper per host operation. Each marshals the
// call to the host goroutine through the execution context carried by ctx
// and waits for it; on the host goroutine the call runs in place.
//
// A ctx that is already cancelled fails fast with a cancellation error
// without touching the queue.
package hostops

import (
	"context"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
)

func run[R any](ctx context.Context, fn func(h core.Host) (R, error)) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, core.Cancelled(context.Cause(ctx))
	}
	return bridge.Exec(ctx, nil, func(_ context.Context, h core.Host) (R, error) {
		return fn(h)
	})
}

func do(ctx context.Context, fn func(h core.Host) error) error {
	_, err := run(ctx, func(h core.Host) (struct{}, error) {
		return struct{}{}, fn(h)
	})
	return err
}

// WriteObject emits obj as a single output record.
func WriteObject(ctx context.Context, obj any) error {
	return do(ctx, func(h core.Host) error { return h.WriteObject(obj, false) })
}

// WriteObjects emits each element of a slice or array as its own record.
func WriteObjects(ctx context.Context, objs any) error {
	return do(ctx, func(h core.Host) error { return h.WriteObject(objs, true) })
}

// WriteError emits a non-terminating error record.
func WriteError(ctx context.Context, rec core.ErrorRecord) error {
	return do(ctx, func(h core.Host) error { return h.WriteError(rec) })
}

// WriteWarning emits a warning.
func WriteWarning(ctx context.Context, msg string) error {
	return do(ctx, func(h core.Host) error { return h.WriteWarning(msg) })
}

// WriteVerbose emits a verbose message.
func WriteVerbose(ctx context.Context, msg string) error {
	return do(ctx, func(h core.Host) error { return h.WriteVerbose(msg) })
}

// WriteDebug emits a debug message.
func WriteDebug(ctx context.Context, msg string) error {
	return do(ctx, func(h core.Host) error { return h.WriteDebug(msg) })
}

// WriteInformation emits an information record.
func WriteInformation(ctx context.Context, rec core.InformationRecord) error {
	return do(ctx, func(h core.Host) error { return h.WriteInformation(rec) })
}

// WriteProgress reports progress.
func WriteProgress(ctx context.Context, rec core.ProgressRecord) error {
	return do(ctx, func(h core.Host) error { return h.WriteProgress(rec) })
}

// ShouldProcess asks the host for confirmation before acting on target.
func ShouldProcess(ctx context.Context, target, action string) (core.ShouldProcessResult, error) {
	return run(ctx, func(h core.Host) (core.ShouldProcessResult, error) {
		return h.ShouldProcess(target, action)
	})
}

// ShouldContinue prompts the user. state is read and updated on the host
// goroutine; callers must not share it across concurrent prompts.
func ShouldContinue(ctx context.Context, query, caption string, state *core.ShouldContinueState) (core.ShouldContinueResult, error) {
	return run(ctx, func(h core.Host) (core.ShouldContinueResult, error) {
		return h.ShouldContinue(query, caption, state)
	})
}
