// Package testutil contains helpers used across tests: a dedicated host
// goroutine harness and a logger that records entries for assertions.
// They are not intended for production usage.
package testutil
