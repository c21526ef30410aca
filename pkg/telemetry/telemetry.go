// Package telemetry wires the OpenTelemetry trace and metric APIs behind a
// small capability injected into the review executor. The process owns the
// exporter lifecycle: Init at startup, Shutdown to flush before exit.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/zen-systems/reviewgate"

// Telemetry emits spans and metrics for pipeline runs. It carries no
// exporter knowledge; providers are injected at construction.
type Telemetry struct {
	tracer      trace.Tracer
	invocations metric.Int64Counter
	failures    metric.Int64Counter
	latency     metric.Float64Histogram
}

// New builds a Telemetry on the given providers.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	meter := mp.Meter(instrumentationName)

	invocations, err := meter.Int64Counter("review_stage_invocations_total",
		metric.WithDescription("Total number of stage gateway invocations."))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("review_stage_failures_total",
		metric.WithDescription("Total number of failed stage gateway invocations."))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("review_stage_duration_seconds",
		metric.WithUnit("s"),
		metric.WithDescription("Latency of stage gateway invocations."))
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		tracer:      tp.Tracer(instrumentationName),
		invocations: invocations,
		failures:    failures,
		latency:     latency,
	}, nil
}

// Noop returns a Telemetry that records nothing. Used by tests and quiet runs.
func Noop() *Telemetry {
	t, err := New(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	if err != nil {
		// Noop instrument construction cannot fail.
		panic(err)
	}
	return t
}

// StartRun opens the span covering one pipeline run. The span carries the
// run correlation id so multi-stage traces can be reassembled from the
// telemetry stream alone. The returned finish func ends the span.
func (t *Telemetry) StartRun(ctx context.Context, runID, item string) (context.Context, func(err error)) {
	ctx, span := t.tracer.Start(ctx, "review.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("item", item),
	))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// StartStage opens the nested span for one stage. The returned finish func
// records the invocation counter, the latency histogram, the failure
// counter on error, and the span status, then ends the span.
func (t *Telemetry) StartStage(ctx context.Context, runID, stage string) (context.Context, func(d time.Duration, err error)) {
	attrs := []attribute.KeyValue{
		attribute.String("run_id", runID),
		attribute.String("stage", stage),
	}
	ctx, span := t.tracer.Start(ctx, "review.stage", trace.WithAttributes(attrs...))
	return ctx, func(d time.Duration, err error) {
		opt := metric.WithAttributes(attrs...)
		t.invocations.Add(ctx, 1, opt)
		t.latency.Record(ctx, d.Seconds(), opt)
		if err != nil {
			t.failures.Add(ctx, 1, opt)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// Provider owns the SDK tracer and meter providers behind a Telemetry.
type Provider struct {
	Telemetry *Telemetry

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// Init builds a Telemetry backed by stdout exporters writing to w.
// Callers must invoke Shutdown before exit so batched spans and the final
// metric collection are flushed.
func Init(ctx context.Context, w io.Writer) (*Provider, error) {
	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	metricExp, err := stdoutmetric.New(stdoutmetric.WithEncoder(json.NewEncoder(w)))
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", "reviewgate"))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)

	tel, err := New(tp, mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, err
	}

	return &Provider{Telemetry: tel, tp: tp, mp: mp}, nil
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}
