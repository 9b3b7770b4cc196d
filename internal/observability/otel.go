// Package observability builds the zap logger and the OpenTelemetry trace and log pipelines.
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ServiceName    = "reliable-inventory"
	ServiceVersion = "1.0.0"

	tracesPath    = "/v1/traces"
	logsPath      = "/v1/logs"
	exportTimeout = 10 * time.Second
	maxQueueSize  = 2048
)

// Config holds the OTLP/HTTP exporter settings. An empty Endpoint disables export.
type Config struct {
	Endpoint   string
	AuthHeader string
}

// Enabled reports whether an exporter endpoint is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

func (c Config) headers() map[string]string {
	if c.AuthHeader == "" {
		return nil
	}
	return map[string]string{"Authorization": c.AuthHeader}
}

func newResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
}

// Setup installs the global tracer and logger providers. The returned shutdown flushes both
// and is safe to call when export is disabled.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !cfg.Enabled() {
		return shutdown, nil
	}

	res, err := newResource()
	if err != nil {
		return shutdown, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithURLPath(tracesPath),
		otlptracehttp.WithHeaders(cfg.headers()),
	)
	if err != nil {
		return shutdown, fmt.Errorf("OTLP trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(traceExporter,
			sdktrace.WithExportTimeout(exportTimeout),
			sdktrace.WithMaxQueueSize(maxQueueSize),
		)),
	)
	otel.SetTracerProvider(tracerProvider)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)

	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(cfg.Endpoint),
		otlploghttp.WithURLPath(logsPath),
		otlploghttp.WithHeaders(cfg.headers()),
	)
	if err != nil {
		return shutdown, fmt.Errorf("OTLP log exporter: %w", err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter,
			sdklog.WithExportTimeout(exportTimeout),
			sdklog.WithMaxQueueSize(maxQueueSize),
		)),
	)
	global.SetLoggerProvider(loggerProvider)
	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)

	return shutdown, nil
}
