package cmd

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	sim "github.com/OpenRailAssociation/popupsim/sim"
)

// setupTracer wires a sim.Tracer from the --trace flag: a no-op tracer by
// default (spec.md lists observability dashboards as an external,
// out-of-scope collaborator), or a real OpenTelemetry tracer exporting
// spans to stdout when enabled. The returned shutdown func flushes the
// exporter and must be deferred by the caller.
//
// Grounded on 99souls-ariadne and itsneelabh-gomind's otel/sdk +
// stdouttrace wiring (TracerProvider construction, resource attributes,
// deferred Shutdown).
func setupTracer(enabled bool) (sim.Tracer, func(), error) {
	if !enabled {
		return sim.NoopTracer{}, func() {}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName("popupsim")),
	)
	if err != nil {
		return nil, nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	shutdown := func() {
		_ = provider.Shutdown(context.Background())
	}
	return sim.NewOtelTracer("popupsim"), shutdown, nil
}
