package observability

import (
	"context"
	"fmt"
	"time"

	"estate-workers/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"
)

// Observability owns the OpenTelemetry meter and tracer providers.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	dispatchSent  otelmetric.Int64Counter
	tracing       *Tracing
}

// Config selects the service name and the optional Jaeger collector.
type Config struct {
	ServiceName    string
	JaegerEndpoint string
	SampleRatio    float64
}

func New(cfg Config, log logger.Logger) *Observability {
	o := &Observability{tracing: NewTracing(cfg, log)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		return o
	}

	o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(o.meterProvider)

	o.meter = o.meterProvider.Meter(cfg.ServiceName)

	o.jobCounter, _ = o.meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = o.meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.dispatchSent, _ = o.meter.Int64Counter(
		"notifications.delivered",
		otelmetric.WithDescription("Push deliveries accepted by the gateway"),
	)

	return o
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
		))
	}
}

// RecordDelivered adds accepted push sends for one dispatch.
func (o *Observability) RecordDelivered(ctx context.Context, target string, n int) {
	if o.dispatchSent != nil && n > 0 {
		o.dispatchSent.Add(ctx, int64(n), otelmetric.WithAttributes(attribute.String("target", target)))
	}
}

func (o *Observability) Tracing() *Tracing {
	return o.tracing
}

func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var err error
	if o.meterProvider != nil {
		err = multierr.Append(err, o.meterProvider.Shutdown(ctx))
	}
	if o.tracing != nil {
		err = multierr.Append(err, o.tracing.Shutdown(ctx))
	}
	if err != nil {
		return fmt.Errorf("observability shutdown: %w", err)
	}
	return nil
}
