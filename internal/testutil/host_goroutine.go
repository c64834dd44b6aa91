package testutil

import (
	"runtime"
	"sync"
)

// HostGoroutine is a dedicated, OS thread locked goroutine that runs
// submitted functions one at a time, the way a single-threaded host calls
// its lifecycle methods.
type HostGoroutine struct {
	work chan func()
	stop sync.Once
	done chan struct{}
}

// StartHostGoroutine starts the goroutine. Call Stop when done.
func StartHostGoroutine() *HostGoroutine {
	h := &HostGoroutine{work: make(chan func()), done: make(chan struct{})}
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.done)
		for fn := range h.work {
			fn()
		}
	}()
	return h
}

// Go submits fn and returns a channel closed once fn returned.
func (h *HostGoroutine) Go(fn func()) <-chan struct{} {
	finished := make(chan struct{})
	h.work <- func() {
		defer close(finished)
		fn()
	}
	return finished
}

// Run submits fn and waits for it.
func (h *HostGoroutine) Run(fn func()) {
	<-h.Go(fn)
}

// Stop ends the goroutine after the current function returned.
func (h *HostGoroutine) Stop() {
	h.stop.Do(func() { close(h.work) })
	<-h.done
}
