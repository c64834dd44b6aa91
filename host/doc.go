// Package host provides Recorder, an in-memory core.Host used by tests,
// examples and the pipeline runner. It records every call in order and
// enforces host affinity: calls from any goroutine other than the bound one
// are rejected and recorded as violations. Console additionally renders the
// calls as text.
package host
