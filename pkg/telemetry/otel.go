package telemetry

import (
	"context"
	"time"

	"github.com/vango-dev/gatefx/pkg/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for gatefx spans.
const defaultTracerName = "gatefx"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "gatefx").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	TracerProvider trace.TracerProvider

	// SkipSpans records a zero-length span for every render that left an
	// effect unchanged. Disabled by default.
	SkipSpans bool
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithSkipSpans enables spans for suppressed renders.
func WithSkipSpans(enabled bool) OTelOption {
	return func(c *OTelConfig) {
		c.SkipSpans = enabled
	}
}

// Tracer is a reactive.Observer that records each effect run as a span
// named "gatefx.effect.<hook>".
type Tracer struct {
	tracer    trace.Tracer
	skipSpans bool
}

// OpenTelemetry creates a tracing observer.
//
// Observer callbacks carry no context, so spans are roots. Run spans are
// back-dated to cover the effect body. Cleanups get a zero-length
// "gatefx.cleanup.<hook>" span.
func OpenTelemetry(opts ...OTelOption) *Tracer {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	return &Tracer{
		tracer:    config.TracerProvider.Tracer(config.TracerName),
		skipSpans: config.SkipSpans,
	}
}

func effectAttributes(info reactive.EffectInfo) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("gatefx.hook", info.Hook),
		attribute.Int64("gatefx.owner_id", int64(info.OwnerID)),
		attribute.Int64("gatefx.effect_id", int64(info.EffectID)),
		attribute.Int("gatefx.runs", info.Runs),
	}
}

func (t *Tracer) EffectScheduled(reactive.EffectInfo) {}

func (t *Tracer) EffectSkipped(info reactive.EffectInfo) {
	if !t.skipSpans {
		return
	}
	now := time.Now()
	_, span := t.tracer.Start(context.Background(), "gatefx.effect."+info.Hook,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(effectAttributes(info)...),
		trace.WithAttributes(attribute.Bool("gatefx.skipped", true)),
		trace.WithTimestamp(now),
	)
	span.End(trace.WithTimestamp(now))
}

func (t *Tracer) EffectRan(info reactive.EffectInfo, d time.Duration) {
	end := time.Now()
	_, span := t.tracer.Start(context.Background(), "gatefx.effect."+info.Hook,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(effectAttributes(info)...),
		trace.WithTimestamp(end.Add(-d)),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(end))
}

func (t *Tracer) CleanupRan(info reactive.EffectInfo) {
	now := time.Now()
	_, span := t.tracer.Start(context.Background(), "gatefx.cleanup."+info.Hook,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(effectAttributes(info)...),
		trace.WithTimestamp(now),
	)
	span.End(trace.WithTimestamp(now))
}
