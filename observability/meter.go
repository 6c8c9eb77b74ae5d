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

	"github.com/kbukum/flowio/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName identifies the process exporting metrics.
	ServiceName string
	// ServiceVersion is the version of the process.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
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

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StreamInstruments holds the metric instruments for one instrumented
// stream: item throughput, buffer pressure, producer-hook activity, and
// error volume.
type StreamInstruments struct {
	itemsPushed     metric.Int64Counter
	bufferOccupancy metric.Int64Histogram
	fillTotal       metric.Int64Counter
	fillDuration    metric.Float64Histogram
	errorTotal      metric.Int64Counter
}

// NewStreamInstruments creates the stream metric instruments on meter.
func NewStreamInstruments(meter metric.Meter) (*StreamInstruments, error) {
	itemsPushed, err := meter.Int64Counter("flowio.items.pushed",
		metric.WithDescription("Items pushed into iterator buffers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowio.items.pushed counter: %w", err)
	}

	bufferOccupancy, err := meter.Int64Histogram("flowio.buffer.occupancy",
		metric.WithDescription("Buffered item count observed when a producer hook completes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowio.buffer.occupancy histogram: %w", err)
	}

	fillTotal, err := meter.Int64Counter("flowio.fills.total",
		metric.WithDescription("Producer hook (begin/fill/flush) invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowio.fills.total counter: %w", err)
	}

	fillDuration, err := meter.Float64Histogram("flowio.fill.duration",
		metric.WithDescription("Producer hook duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowio.fill.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("flowio.errors.total",
		metric.WithDescription("Errors surfaced through iterator error events"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowio.errors.total counter: %w", err)
	}

	return &StreamInstruments{
		itemsPushed:     itemsPushed,
		bufferOccupancy: bufferOccupancy,
		fillTotal:       fillTotal,
		fillDuration:    fillDuration,
		errorTotal:      errorTotal,
	}, nil
}

// RecordPush counts one item pushed into a buffer.
func (s *StreamInstruments) RecordPush(ctx context.Context, attrs ...attribute.KeyValue) {
	s.itemsPushed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOccupancy records the buffer length observed when a producer hook
// released the read lock.
func (s *StreamInstruments) RecordOccupancy(ctx context.Context, length int64, attrs ...attribute.KeyValue) {
	s.bufferOccupancy.Record(ctx, length, metric.WithAttributes(attrs...))
}

// RecordFill counts one producer-hook invocation and its duration.
func (s *StreamInstruments) RecordFill(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	set := metric.WithAttributes(attrs...)
	s.fillTotal.Add(ctx, 1, set)
	s.fillDuration.Record(ctx, d.Seconds(), set)
}

// RecordError counts one error event.
func (s *StreamInstruments) RecordError(ctx context.Context, attrs ...attribute.KeyValue) {
	s.errorTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
