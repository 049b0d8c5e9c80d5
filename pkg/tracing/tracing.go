package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const _defaultServiceName = "photo-pipeline"

type Tracing struct {
	serviceName string
	writer      io.Writer
	prettyPrint bool

	provider trace.TracerProvider
	sdk      *sdktrace.TracerProvider
}

// New returns a no-op provider when enabled is false, otherwise an sdk
// provider exporting spans to stdout (or the configured writer).
func New(enabled bool, opts ...Option) (*Tracing, error) {
	t := &Tracing{
		serviceName: _defaultServiceName,
		writer:      os.Stdout,
	}

	for _, opt := range opts {
		opt(t)
	}

	if !enabled {
		t.provider = noop.NewTracerProvider()
		return t, nil
	}

	exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(t.writer)}
	if t.prettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}

	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("Tracing - New - stdouttrace.New: %w", err)
	}

	t.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", t.serviceName),
		)),
	)
	t.provider = t.sdk

	return t, nil
}

func (t *Tracing) Provider() trace.TracerProvider {
	return t.provider
}

func (t *Tracing) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

// ForceFlush exports finished spans now. Used between Lambda invocations,
// where the process may be frozen before the batcher fires.
func (t *Tracing) ForceFlush(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}

	err := t.sdk.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("Tracing - ForceFlush - t.sdk.ForceFlush: %w", err)
	}

	return nil
}

// Shutdown flushes pending spans. No-op for a disabled provider.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}

	err := t.sdk.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("Tracing - Shutdown - t.sdk.Shutdown: %w", err)
	}

	return nil
}
