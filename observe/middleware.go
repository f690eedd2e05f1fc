package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature of an observable tool execution.
type ExecuteFunc func(ctx context.Context, meta Meta, args map[string]any) (any, error)

// Middleware wraps tool execution with tracing, metrics, and logging.
// Errors from the wrapped function are recorded and propagated
// unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from its parts. Nil parts get
// no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newTracer(nil)
	}
	if metrics == nil {
		metrics = NoopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver builds a Middleware backed by the Observer's
// providers.
func MiddlewareFromObserver(obs *Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Wrap returns fn wrapped with a span, execution metrics, and one log
// line per call.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, meta Meta, args map[string]any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := fn(ctx, meta, args)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, meta, duration, err)

		log := m.logger.With(
			Field{Key: "tool", Value: meta.Tool},
			Field{Key: "source", Value: meta.Source},
		)
		fields := []Field{{Key: "duration_ms", Value: float64(duration.Milliseconds())}}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			log.Error(ctx, "tool execution failed", fields...)
		} else {
			log.Info(ctx, "tool execution completed", fields...)
		}

		return result, err
	}
}

// CacheLookup records a cache hit or miss for a tool call.
func (m *Middleware) CacheLookup(ctx context.Context, meta Meta, hit bool) {
	m.metrics.RecordCacheLookup(ctx, meta, hit)
}
