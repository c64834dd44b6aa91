// Package metrics provides bridge.Observer implementations: Collector exports
// prometheus metrics, Counters keeps in-memory totals for tests and
// diagnostics, and Multi fans callbacks out to several observers.
package metrics
