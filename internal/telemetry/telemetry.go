// Package telemetry wires up OpenTelemetry metric providers for the service.
// When telemetry is disabled, a no-op implementation is used so callers never
// have to check whether metrics are enabled.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Config controls telemetry initialization.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers holds the initialized metric providers.
type Providers struct {
	MeterProvider *sdkmetric.MeterProvider
	Meter         metric.Meter
	enabled       bool
}

// Init sets up the metric providers. When disabled, the returned Providers is
// inert and Shutdown is a no-op.
func Init(_ context.Context, cfg *Config) (*Providers, error) {
	if !cfg.Enabled {
		return &Providers{}, nil
	}
	mp := sdkmetric.NewMeterProvider()
	return &Providers{
		MeterProvider: mp,
		Meter:         mp.Meter(cfg.ServiceName),
		enabled:       true,
	}, nil
}

// IsEnabled reports whether real providers were created.
func (p *Providers) IsEnabled() bool {
	return p != nil && p.enabled
}

// Shutdown flushes and stops the providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
