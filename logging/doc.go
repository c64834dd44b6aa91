// Package logging provides a minimal logging interface and adapters for hostbridge.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the bridge, engine and runner use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - LogrusAdapter and ZapAdapter for hosts that already run logrus or zap
//   - BridgeLogger, a slog based logger with contextual helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	eng := engine.New(func(o *engine.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
