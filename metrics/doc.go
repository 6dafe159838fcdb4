// Package metrics exports Prometheus metrics for transpiler runs: runs by
// outcome, generations per run and stage durations.
package metrics
