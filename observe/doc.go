// Package observe provides structured logging, OpenTelemetry metrics,
// and tracing for tool executions and the cache layer.
//
// The Observer owns the telemetry providers and their exporters; the
// Middleware wraps a tool execution function with a span, duration and
// error metrics, and a structured log line per call.
package observe
