// Package tracing installs the process-wide OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"movie-explorer/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Init sets the global tracer provider from config and returns its shutdown
// function. With the none exporter the global no-op provider is left in place.
func Init(ctx context.Context, config utils.TracingConfig, serviceName string, logger *zap.Logger) (func(context.Context) error, error) {
	exporter, err := newExporter(ctx, config)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		logger.Info("Tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	tp := NewProvider(exporter, serviceName, config.SampleRatio)
	otel.SetTracerProvider(tp)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Warn("Tracing error", zap.Error(err))
	}))

	logger.Info("Tracing initialized",
		zap.String("exporter", config.Exporter),
		zap.String("endpoint", config.Endpoint),
		zap.Float64("sample_ratio", config.SampleRatio),
	)
	return tp.Shutdown, nil
}

// NewProvider batches spans into exporter, sampling root spans at ratio.
func NewProvider(exporter sdktrace.SpanExporter, serviceName string, ratio float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
}

func newExporter(ctx context.Context, config utils.TracingConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(config.Exporter) {
	case "", ExporterNone:
		return nil, nil

	case ExporterStdout:
		exporter, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exporter, nil

	case ExporterOTLP:
		var opts []otlptracehttp.Option
		if config.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(config.Endpoint))
		}
		if config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exporter, nil

	default:
		return nil, fmt.Errorf("unknown trace exporter %q", config.Exporter)
	}
}
