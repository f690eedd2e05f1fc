package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config holds all configuration for the Observer.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // stdout|otlp|none
	SamplePct float64 // 0.0-1.0; 0 means always sample
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // stdout|otlp|prometheus|none
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Enabled bool
	Level   string // debug|info|warn|error
}

// Observer owns the telemetry providers for the process.
type Observer struct {
	logger         Logger
	tracer         trace.Tracer
	meter          metric.Meter
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// New builds an Observer from config. Disabled subsystems get no-op
// implementations; a disabled Observer is always safe to use.
func New(ctx context.Context, cfg Config) (*Observer, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("observe: service name is required")
	}
	if cfg.Tracing.SamplePct < 0 || cfg.Tracing.SamplePct > 1 {
		return nil, fmt.Errorf("observe: sample percentage %v out of range", cfg.Tracing.SamplePct)
	}

	obs := &Observer{
		logger: NopLogger(),
		tracer: tracenoop.NewTracerProvider().Tracer(cfg.ServiceName),
		meter:  metricnoop.NewMeterProvider().Meter(cfg.ServiceName),
	}
	if cfg.Logging.Enabled {
		obs.logger = NewLogger(cfg.Logging.Level)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	)

	if cfg.Tracing.Enabled {
		exp, err := newTraceExporter(ctx, cfg.Tracing.Exporter)
		if err != nil {
			return nil, err
		}
		sampler := sdktrace.AlwaysSample()
		if cfg.Tracing.SamplePct > 0 && cfg.Tracing.SamplePct < 1 {
			sampler = sdktrace.TraceIDRatioBased(cfg.Tracing.SamplePct)
		}
		obs.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
		)
		obs.tracer = obs.tracerProvider.Tracer(cfg.ServiceName)
	}

	if cfg.Metrics.Enabled {
		reader, err := newMetricsReader(ctx, cfg.Metrics.Exporter)
		if err != nil {
			return nil, err
		}
		obs.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithResource(res),
		)
		obs.meter = obs.meterProvider.Meter(cfg.ServiceName)
	}

	return obs, nil
}

// Logger returns the process logger.
func (o *Observer) Logger() Logger { return o.logger }

// Tracer returns the tool tracer.
func (o *Observer) Tracer() trace.Tracer { return o.tracer }

// Meter returns the tool meter.
func (o *Observer) Meter() metric.Meter { return o.meter }

// Shutdown flushes and stops all providers.
func (o *Observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: tracer shutdown: %w", err))
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
