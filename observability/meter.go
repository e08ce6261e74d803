package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/gatekit/logger"
)

const defaultMeterName = "github.com/kbukum/gatekit/auth"

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get(logger.ComponentObservability).Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// AuthMetrics holds OpenTelemetry instruments for authentication attempts.
// It implements auth.Recorder.
type AuthMetrics struct {
	attempts metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

// NewAuthMetrics creates the instruments on meter. A nil meter uses the
// global provider.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	if meter == nil {
		meter = Meter(defaultMeterName)
	}

	attempts, err := meter.Int64Counter("auth.attempts",
		metric.WithDescription("Authentication attempts by provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.attempts counter: %w", err)
	}

	duration, err := meter.Float64Histogram("auth.duration",
		metric.WithDescription("Duration of authentication attempts in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.duration histogram: %w", err)
	}

	failures, err := meter.Int64Counter("auth.service_failures",
		metric.WithDescription("Authentication attempts that failed because a backend broke"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.service_failures counter: %w", err)
	}

	return &AuthMetrics{attempts: attempts, duration: duration, failures: failures}, nil
}

// RecordAttempt implements auth.Recorder.
func (m *AuthMetrics) RecordAttempt(ctx context.Context, provider, outcome string, seconds float64) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrAuthProvider, provider),
		attribute.String(AttrAuthOutcome, outcome),
	))
	m.duration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String(AttrAuthProvider, provider),
	))
	if outcome == "service_failure" {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrAuthProvider, provider)))
	}
}
