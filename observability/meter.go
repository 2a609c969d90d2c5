package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by alignment runs and the HTTP host.
type Metrics struct {
	runs            metric.Int64Counter
	runDuration     metric.Float64Histogram
	utterances      metric.Int64Counter
	channelErrors   metric.Int64Counter
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter("alignment.runs",
		metric.WithDescription("Alignment runs by mode and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating alignment.runs counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("alignment.duration",
		metric.WithDescription("Duration of alignment runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating alignment.duration histogram: %w", err)
	}

	utterances, err := meter.Int64Counter("alignment.utterances",
		metric.WithDescription("Master utterances attributed, by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating alignment.utterances counter: %w", err)
	}

	channelErrors, err := meter.Int64Counter("diagnostics.channel_errors",
		metric.WithDescription("Channels that failed to load during diagnostics"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diagnostics.channel_errors counter: %w", err)
	}

	requestTotal, err := meter.Int64Counter("request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.duration histogram: %w", err)
	}

	return &Metrics{
		runs:            runs,
		runDuration:     runDuration,
		utterances:      utterances,
		channelErrors:   channelErrors,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}, nil
}

// RecordRun records one finished alignment run.
func (m *Metrics) RecordRun(ctx context.Context, mode string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("success", success),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

// RecordUtterances records matched and unmatched master utterance counts.
func (m *Metrics) RecordUtterances(ctx context.Context, matched, unmatched int) {
	if m == nil {
		return
	}
	m.utterances.Add(ctx, int64(matched), metric.WithAttributes(attribute.String("result", "matched")))
	m.utterances.Add(ctx, int64(unmatched), metric.WithAttributes(attribute.String("result", "unmatched")))
}

// RecordChannelError records a channel that could not be read.
func (m *Metrics) RecordChannelError(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.channelErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}
