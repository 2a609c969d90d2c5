package observability

import (
	"context"
	"errors"
	"fmt"
)

// Setup starts the tracer and meter providers when telemetry is enabled and
// returns the instruments plus a shutdown func that flushes both. With
// telemetry disabled it returns nil metrics, which every Record method
// accepts, and a no-op shutdown.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion string) (*Metrics, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}

	tp, err := InitTracer(ctx, cfg.TracerConfig(serviceName, serviceVersion))
	if err != nil {
		return nil, noop, fmt.Errorf("init tracer: %w", err)
	}
	mp, err := InitMeter(ctx, cfg.MeterConfig(serviceName, serviceVersion))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, noop, fmt.Errorf("init meter: %w", err)
	}
	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	metrics, err := NewMetrics(Meter(serviceName))
	if err != nil {
		_ = shutdown(ctx)
		return nil, noop, err
	}
	return metrics, shutdown, nil
}
