// Package metrics records board activity as OpenTelemetry instruments.
// Export is enabled only when OTEL_EXPORTER_OTLP_ENDPOINT is set; otherwise
// instruments are backed by a no-op meter.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ServiceName identifies this process in exported telemetry.
const ServiceName = "metrotimes"

// EndpointEnv enables OTLP/HTTP export when set.
const EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// Version is set at build time via -ldflags.
var Version = "dev"

// Instruments holds the counters the board records into. A nil
// *Instruments is valid and records nothing.
type Instruments struct {
	events    metric.Int64Counter
	dropped   metric.Int64Counter
	renders   metric.Int64Counter
	coalesced metric.Int64Counter
}

// NewInstruments creates the board instruments on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	var (
		i   Instruments
		err error
	)
	if i.events, err = meter.Int64Counter(
		"metrotimes.events.accepted",
		metric.WithDescription("Events accepted for this board instance"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: events counter: %w", err)
	}
	if i.dropped, err = meter.Int64Counter(
		"metrotimes.events.dropped",
		metric.WithDescription("Events dropped because their identifier belongs to another instance"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: dropped counter: %w", err)
	}
	if i.renders, err = meter.Int64Counter(
		"metrotimes.renders",
		metric.WithDescription("Render passes performed"),
		metric.WithUnit("{render}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: renders counter: %w", err)
	}
	if i.coalesced, err = meter.Int64Counter(
		"metrotimes.renders.coalesced",
		metric.WithDescription("Render requests absorbed by the startup window"),
		metric.WithUnit("{render}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: coalesced counter: %w", err)
	}
	return &i, nil
}

// EventAccepted counts one correlated event of the given kind.
func (i *Instruments) EventAccepted(ctx context.Context, kind string) {
	if i == nil {
		return
	}
	i.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// EventDropped counts one event discarded for a correlation mismatch.
func (i *Instruments) EventDropped(ctx context.Context, kind string) {
	if i == nil {
		return
	}
	i.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// Rendered counts one render pass. trigger is "event" or "release".
func (i *Instruments) Rendered(ctx context.Context, trigger string) {
	if i == nil {
		return
	}
	i.renders.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", trigger)))
}

// Coalesced counts one render request held back by the startup window.
func (i *Instruments) Coalesced(ctx context.Context) {
	if i == nil {
		return
	}
	i.coalesced.Add(ctx, 1)
}

// Init returns a meter for the board. When EndpointEnv is unset it returns
// a no-op meter and a no-op shutdown. The exporter reads the standard
// OTEL_EXPORTER_OTLP_* variables itself.
func Init(ctx context.Context) (metric.Meter, func(context.Context) error, error) {
	if os.Getenv(EndpointEnv) == "" {
		slog.Debug("metrics export disabled", "env", EndpointEnv)
		return noop.NewMeterProvider().Meter(ServiceName), func(context.Context) error { return nil }, nil
	}

	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: create exporter: %w", err)
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(60*time.Second),
			),
		),
		sdkmetric.WithResource(res),
	)

	slog.Debug("metrics export enabled", "endpoint", os.Getenv(EndpointEnv))
	return provider.Meter(ServiceName), provider.Shutdown, nil
}

// newResource describes this process for exported telemetry.
func newResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(Version),
			semconv.ProcessRuntimeName("go"),
			semconv.ProcessRuntimeVersion(runtime.Version()),
			semconv.ProcessPID(os.Getpid()),
		),
	)
}
