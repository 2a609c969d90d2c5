package provider

import (
	"context"
	"time"

	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/resilience"
)

// WithRetry returns a Middleware that retries failed Execute calls. Each
// retry is logged at debug level when log is non-nil.
func WithRetry[I, O any](cfg resilience.RetryConfig, log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if log != nil && cfg.OnRetry == nil {
			name := inner.Name()
			cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
				log.Debug("retrying provider call", logger.MergeWithError(map[string]interface{}{
					"provider": name,
					"attempt":  attempt,
					"backoff":  backoff.String(),
				}, err))
			}
		}
		return &retryRR[I, O]{inner: inner, cfg: cfg}
	}
}

type retryRR[I, O any] struct {
	inner RequestResponse[I, O]
	cfg   resilience.RetryConfig
}

func (r *retryRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *retryRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *retryRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return resilience.Retry(ctx, r.cfg, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// WithCircuitBreaker returns a Middleware that fails fast with
// resilience.ErrCircuitOpen while cb is open. An open breaker also makes
// the provider report itself unavailable.
func WithCircuitBreaker[I, O any](cb *resilience.CircuitBreaker) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &breakerRR[I, O]{inner: inner, cb: cb}
	}
}

type breakerRR[I, O any] struct {
	inner RequestResponse[I, O]
	cb    *resilience.CircuitBreaker
}

func (b *breakerRR[I, O]) Name() string { return b.inner.Name() }

func (b *breakerRR[I, O]) IsAvailable(ctx context.Context) bool {
	return b.cb.State() != resilience.StateOpen && b.inner.IsAvailable(ctx)
}

func (b *breakerRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	var out O
	err := b.cb.Execute(func() error {
		var err error
		out, err = b.inner.Execute(ctx, input)
		return err
	})
	return out, err
}
