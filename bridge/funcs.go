package bridge

import (
	"context"

	"github.com/hupe1980/hostbridge/core"
)

// Funcs is logic assembled from plain functions. Only the non-nil stages
// are declared, so the runner skips the others without creating a context.
type Funcs struct {
	Begin   StageFunc
	Process StageFunc
	End     StageFunc
	// Stop is called synchronously when the host requests a stop.
	Stop func()

	input any
}

// BeginProcessing implements BeginProcessor.
func (f *Funcs) BeginProcessing(ctx context.Context, hc *Context) error {
	if f.Begin == nil {
		return nil
	}
	return f.Begin(ctx, hc)
}

// ProcessRecord implements RecordProcessor.
func (f *Funcs) ProcessRecord(ctx context.Context, hc *Context) error {
	if f.Process == nil {
		return nil
	}
	return f.Process(ctx, hc)
}

// EndProcessing implements EndProcessor.
func (f *Funcs) EndProcessing(ctx context.Context, hc *Context) error {
	if f.End == nil {
		return nil
	}
	return f.End(ctx, hc)
}

// DeclaredStages implements StageDeclarer.
func (f *Funcs) DeclaredStages() core.StageSet {
	var s core.StageSet
	if f.Begin != nil {
		s = s.Add(core.StageBegin)
	}
	if f.Process != nil {
		s = s.Add(core.StageProcess)
	}
	if f.End != nil {
		s = s.Add(core.StageEnd)
	}
	return s
}

// StopProcessing forwards a stop request to Stop.
func (f *Funcs) StopProcessing() {
	if f.Stop != nil {
		f.Stop()
	}
}

// BindInput stores the input unit of the next process stage.
func (f *Funcs) BindInput(v any) error {
	f.input = v
	return nil
}

// Input returns the input unit bound for the current process stage.
func (f *Funcs) Input() any { return f.input }
