package host

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hostbridge/core"
	"github.com/hupe1980/hostbridge/internal/util"
)

// Call is one recorded host operation.
type Call struct {
	Seq   int
	Op    string
	Value any
}

// Operation names used in Call.Op.
const (
	OpObject         = "object"
	OpError          = "error"
	OpWarning        = "warning"
	OpVerbose        = "verbose"
	OpDebug          = "debug"
	OpInformation    = "information"
	OpProgress       = "progress"
	OpShouldProcess  = "should_process"
	OpShouldContinue = "should_continue"
)

// Options configures a Recorder.
type Options struct {
	// OutputLimit halts the host after that many objects were written.
	// Zero means unlimited.
	OutputLimit int
	// WhatIf makes ShouldProcess answer false with reason WhatIf.
	WhatIf bool
	// Confirm is the answer ShouldProcess gives when WhatIf is off.
	Confirm bool
	// Continue is the answer ShouldContinue gives.
	Continue bool
	// ToAll makes the ShouldContinue answer sticky ("yes to all" or
	// "no to all").
	ToAll bool
}

// DefaultOptions accepts every confirmation and has no output limit.
func DefaultOptions() Options {
	return Options{Confirm: true, Continue: true}
}

// Recorder is an in-memory core.Host.
type Recorder struct {
	opts Options

	gid    atomic.Uint64
	halted atomic.Bool

	mu         sync.Mutex
	calls      []Call
	violations []Call
	objects    int
}

var _ core.Host = (*Recorder)(nil)

// NewRecorder creates an unbound Recorder. An unbound recorder accepts calls
// from any goroutine until Bind is called.
func NewRecorder(optFns ...func(o *Options)) *Recorder {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Recorder{opts: opts}
}

// Bind makes the calling goroutine the only one allowed to use the host.
func (r *Recorder) Bind() { r.gid.Store(util.GoroutineID()) }

// Unbind lifts the goroutine restriction.
func (r *Recorder) Unbind() { r.gid.Store(0) }

// Halt makes every later output operation fail with core.ErrHostHalted.
func (r *Recorder) Halt() { r.halted.Store(true) }

// Halted reports whether the host stopped accepting output.
func (r *Recorder) Halted() bool { return r.halted.Load() }

// Calls returns a snapshot of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the operation names of the recorded calls in order.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}

// Objects returns the written objects in order.
func (r *Recorder) Objects() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, c := range r.calls {
		if c.Op == OpObject {
			out = append(out, c.Value)
		}
	}
	return out
}

// Violations returns calls rejected because they came from the wrong
// goroutine.
func (r *Recorder) Violations() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.violations...)
}

// Reset drops recorded calls and violations and clears the halt flag.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.violations = nil
	r.objects = 0
	r.halted.Store(false)
}

func (r *Recorder) check(op string, v any) error {
	if gid := r.gid.Load(); gid != 0 && util.GoroutineID() != gid {
		r.mu.Lock()
		r.violations = append(r.violations, Call{Seq: len(r.violations) + 1, Op: op, Value: v})
		r.mu.Unlock()
		return core.NewUsageError(op, "host called outside the host goroutine")
	}
	return nil
}

func (r *Recorder) record(op string, v any) error {
	if err := r.check(op, v); err != nil {
		return err
	}
	if r.halted.Load() {
		return fmt.Errorf("%s: %w", op, core.ErrHostHalted)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Seq: len(r.calls) + 1, Op: op, Value: v})
	return nil
}

// WriteObject implements core.Host. With enumerate set, slices and arrays are
// written element by element.
func (r *Recorder) WriteObject(obj any, enumerate bool) error {
	if enumerate {
		rv := reflect.ValueOf(obj)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				if err := r.writeOne(rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return r.writeOne(obj)
}

func (r *Recorder) writeOne(obj any) error {
	if err := r.record(OpObject, obj); err != nil {
		return err
	}
	if r.opts.OutputLimit <= 0 {
		return nil
	}
	r.mu.Lock()
	r.objects++
	reached := r.objects >= r.opts.OutputLimit
	r.mu.Unlock()
	if reached {
		r.Halt()
	}
	return nil
}

// WriteError implements core.Host.
func (r *Recorder) WriteError(rec core.ErrorRecord) error { return r.record(OpError, rec) }

// WriteWarning implements core.Host.
func (r *Recorder) WriteWarning(msg string) error { return r.record(OpWarning, msg) }

// WriteVerbose implements core.Host.
func (r *Recorder) WriteVerbose(msg string) error { return r.record(OpVerbose, msg) }

// WriteDebug implements core.Host.
func (r *Recorder) WriteDebug(msg string) error { return r.record(OpDebug, msg) }

// WriteInformation implements core.Host.
func (r *Recorder) WriteInformation(rec core.InformationRecord) error {
	return r.record(OpInformation, rec)
}

// WriteProgress implements core.Host.
func (r *Recorder) WriteProgress(rec core.ProgressRecord) error { return r.record(OpProgress, rec) }

// ShouldProcess implements core.Host.
func (r *Recorder) ShouldProcess(target, action string) (core.ShouldProcessResult, error) {
	if err := r.record(OpShouldProcess, target+": "+action); err != nil {
		return core.ShouldProcessResult{}, err
	}
	if r.opts.WhatIf {
		return core.ShouldProcessResult{Result: false, Reason: core.ShouldProcessReasonWhatIf}, nil
	}
	return core.ShouldProcessResult{Result: r.opts.Confirm, Reason: core.ShouldProcessReasonNone}, nil
}

// ShouldContinue implements core.Host. Earlier "to all" answers carried in
// state short-circuit the prompt.
func (r *Recorder) ShouldContinue(query, caption string, state *core.ShouldContinueState) (core.ShouldContinueResult, error) {
	if state == nil {
		state = &core.ShouldContinueState{}
	}
	if state.YesToAll {
		return core.ShouldContinueResult{Result: true, YesToAll: true}, nil
	}
	if state.NoToAll {
		return core.ShouldContinueResult{Result: false, NoToAll: true}, nil
	}
	if err := r.record(OpShouldContinue, caption+": "+query); err != nil {
		return core.ShouldContinueResult{}, err
	}
	res := core.ShouldContinueResult{Result: r.opts.Continue}
	if r.opts.ToAll {
		res.YesToAll = r.opts.Continue
		res.NoToAll = !r.opts.Continue
		state.YesToAll = res.YesToAll
		state.NoToAll = res.NoToAll
	}
	return res, nil
}
