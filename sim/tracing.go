package sim

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Tracer starts OpenTelemetry spans. Run opens one span covering the whole
// run; coordinator trips (pickups, retrofits, parking moves) do not get
// spans of their own. Disabled by default (spec.md's external interfaces
// list dashboards/observability as out-of-scope collaborators), wired to a
// no-op implementation unless the caller opts in.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span)
}

// NoopTracer discards every span. It is the default Tracer so that running
// without an exporter configured costs nothing.
type NoopTracer struct{}

func (NoopTracer) StartSpan(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	span := oteltrace.SpanFromContext(ctx)
	return ctx, span
}

// OtelTracer wraps a configured otel.Tracer, obtained from the global
// provider (spec.md's SPEC_FULL.md DOMAIN STACK: otel + otel/sdk +
// stdouttrace, wired via cmd/'s --trace flag).
type OtelTracer struct {
	tracer oteltrace.Tracer
}

// NewOtelTracer builds an OtelTracer using the named tracer from the global
// TracerProvider. Callers configure the provider (e.g. with stdouttrace) in
// cmd/ before constructing a World with this Tracer.
func NewOtelTracer(name string) *OtelTracer {
	return &OtelTracer{tracer: otel.Tracer(name)}
}

func (t *OtelTracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return t.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
}
