package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with tool-specific span management.
type Tracer interface {
	// StartSpan starts a span for a tool execution.
	StartSpan(ctx context.Context, meta Meta) (context.Context, trace.Span)

	// EndSpan finishes the span, recording err as the span status when
	// non-nil. Best-effort; must not panic.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(tracer trace.Tracer) *tracerImpl {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("")
	}
	return &tracerImpl{tracer: tracer}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta Meta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", meta.Tool),
			attribute.String("tool.source", meta.Source),
		),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

var _ Tracer = (*tracerImpl)(nil)
