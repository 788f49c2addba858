package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestNoopTracer_StartSpanReturnsNoopSpan(t *testing.T) {
	// GIVEN a context with no span and no provider configured
	ctx := context.Background()
	tracer := NoopTracer{}

	// WHEN a span is started
	_, span := tracer.StartSpan(ctx, "pickup-trip")

	// THEN the returned span is the inert default, never recording
	assert.False(t, span.IsRecording())
}

func TestOtelTracer_StartSpanUsesNamedTracer(t *testing.T) {
	// GIVEN an OtelTracer built against the default (no-op) global provider
	tracer := NewOtelTracer("popupsim")

	// WHEN a span is started
	ctx, span := tracer.StartSpan(context.Background(), "workshop-scan")
	defer span.End()

	// THEN the span is attached to the returned context
	assert.Equal(t, span, oteltrace.SpanFromContext(ctx))
}
