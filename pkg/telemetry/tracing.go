package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/odvcencio/trellis/pkg/ui/app"

// Common attribute keys for frame tracing.
var (
	AttrFrame   = attribute.Key("trellis.frame")
	AttrPhase   = attribute.Key("trellis.phase")
	AttrChanges = attribute.Key("trellis.changes")
	AttrWidth   = attribute.Key("trellis.viewport.width")
	AttrHeight  = attribute.Key("trellis.viewport.height")
)

// TracerProvider owns an SDK tracer provider exporting to a writer.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// NewTracerProvider creates a provider that exports spans as JSON to w.
func NewTracerProvider(w io.Writer, serviceName string) (*TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &TracerProvider{provider: provider}, nil
}

// Tracer returns a frame tracer backed by the provider.
func (tp *TracerProvider) Tracer() *Tracer {
	return NewTracer(tp.provider)
}

// Shutdown flushes pending spans and stops the exporter.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer starts one span per frame. A nil *Tracer starts no-op spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a frame tracer on tp. A nil tp traces nothing.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(tracerName)}
}

// StartFrame starts the span covering frame number frame.
func (t *Tracer) StartFrame(ctx context.Context, frame uint64, width, height int) (context.Context, trace.Span) {
	if t == nil {
		return noop.NewTracerProvider().Tracer(tracerName).Start(ctx, "frame")
	}
	return t.tracer.Start(ctx, "frame", trace.WithAttributes(
		AttrFrame.Int64(int64(frame)),
		AttrWidth.Int(width),
		AttrHeight.Int(height),
	))
}

// PhaseDone adds an event marking the end of a frame phase to the span
// in ctx.
func PhaseDone(ctx context.Context, phase string, d time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(phase, trace.WithAttributes(
		AttrPhase.String(phase),
		attribute.Int64("duration_us", d.Microseconds()),
	))
}

// SetChanges records the root change flags on the span in ctx.
func SetChanges(ctx context.Context, changes string) {
	trace.SpanFromContext(ctx).SetAttributes(AttrChanges.String(changes))
}
