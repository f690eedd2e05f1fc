package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meta identifies a tool execution for telemetry purposes.
type Meta struct {
	Tool   string // tool name, e.g. "eurlex.search"
	Source string // data source label, e.g. "eurlex"
}

// SpanName returns the deterministic span name for this tool.
func (m Meta) SpanName() string {
	return "tool.exec." + m.Tool
}

// Metrics records execution and cache metrics for tools.
//
// Implementations must be safe for concurrent use and must not panic.
type Metrics interface {
	// RecordExecution records one tool execution with its duration and
	// error status.
	RecordExecution(ctx context.Context, meta Meta, duration time.Duration, err error)

	// RecordCacheLookup records a cache hit or miss for a tool call.
	RecordCacheLookup(ctx context.Context, meta Meta, hit bool)
}

type metricsImpl struct {
	execTotal    metric.Int64Counter
	execErrors   metric.Int64Counter
	execDuration metric.Float64Histogram
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	execTotal, err := meter.Int64Counter(
		"tool.exec.total",
		metric.WithDescription("Total number of tool executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	execErrors, err := meter.Int64Counter(
		"tool.exec.errors",
		metric.WithDescription("Total number of tool execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	execDuration, err := meter.Float64Histogram(
		"tool.exec.duration_ms",
		metric.WithDescription("Tool execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	cacheHits, err := meter.Int64Counter(
		"tool.cache.hits",
		metric.WithDescription("Tool results served from the cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}
	cacheMisses, err := meter.Int64Counter(
		"tool.cache.misses",
		metric.WithDescription("Tool cache lookups that missed"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		execTotal:    execTotal,
		execErrors:   execErrors,
		execDuration: execDuration,
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
	}, nil
}

func (m *metricsImpl) attrs(meta Meta) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("tool.name", meta.Tool),
		attribute.String("tool.source", meta.Source),
	)
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta Meta, duration time.Duration, err error) {
	opt := m.attrs(meta)
	m.execTotal.Add(ctx, 1, opt)
	if err != nil {
		m.execErrors.Add(ctx, 1, opt)
	}
	m.execDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta Meta, hit bool) {
	opt := m.attrs(meta)
	if hit {
		m.cacheHits.Add(ctx, 1, opt)
		return
	}
	m.cacheMisses.Add(ctx, 1, opt)
}

// noopMetrics records nothing.
type noopMetrics struct{}

func (noopMetrics) RecordExecution(context.Context, Meta, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, Meta, bool)               {}

// NoopMetrics returns a Metrics that discards everything.
func NoopMetrics() Metrics { return noopMetrics{} }

var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = noopMetrics{}
)
