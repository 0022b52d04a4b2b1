// Package tracing exports OpenTelemetry spans for validation runs: one span
// per run and one child span per rule. Tracing is off by default, in which
// case all spans are no-ops.
package tracing
