// Package runner simulates a single-threaded pipeline host.
//
// A Runner drives one logic instance through a whole pipeline on a
// dedicated goroutine locked to its OS thread: begin, one process stage per
// input unit, end. That goroutine is the host goroutine for every stage of
// the run, so hosts that enforce affinity (see host.Recorder) observe all
// calls from one place.
//
// # Responsibilities (abridged)
//   - Pipeline sequencing through an engine.Binding
//   - Run lifecycle management & cancellation (stop requested)
//   - Early termination when a stage fails or the host halts
//
// See runner.go for the operational implementation details.
package runner
