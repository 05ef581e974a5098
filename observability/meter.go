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

	"github.com/kbukum/iocboot/logger"
)

// Metric names.
const (
	MetricResolveTotal  = "ioc.resolve.total"
	MetricResolveErrors = "ioc.resolve.errors"
	MetricPhaseDuration = "ioc.phase.duration"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
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

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the iocboot meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// ContainerMetrics holds the instruments recorded by the bootstrap and the
// resolution facade.
type ContainerMetrics struct {
	resolveTotal  metric.Int64Counter
	resolveErrors metric.Int64Counter
	phaseDuration metric.Float64Histogram
}

// NewContainerMetrics creates the instruments on meter.
func NewContainerMetrics(meter metric.Meter) (*ContainerMetrics, error) {
	resolveTotal, err := meter.Int64Counter(MetricResolveTotal,
		metric.WithDescription("Total number of contract resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveTotal, err)
	}

	resolveErrors, err := meter.Int64Counter(MetricResolveErrors,
		metric.WithDescription("Failed contract resolutions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveErrors, err)
	}

	phaseDuration, err := meter.Float64Histogram(MetricPhaseDuration,
		metric.WithDescription("Duration of bootstrap phases in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricPhaseDuration, err)
	}

	return &ContainerMetrics{
		resolveTotal:  resolveTotal,
		resolveErrors: resolveErrors,
		phaseDuration: phaseDuration,
	}, nil
}

// RecordResolve counts one resolution of contract. A non-empty code marks it failed.
func (m *ContainerMetrics) RecordResolve(ctx context.Context, contract, code string) {
	if m == nil {
		return
	}
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrContract, contract)))
	if code != "" {
		m.resolveErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String(AttrContract, contract),
			attribute.String("code", code),
		))
	}
}

// RecordPhase records how long a bootstrap phase took.
func (m *ContainerMetrics) RecordPhase(ctx context.Context, phase, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrPhase, phase),
		attribute.String(AttrStatus, status),
	))
}
