// Package resilience keeps optional backends from slowing a run down.
//
// Retry re-runs a failing call with exponential backoff. CircuitBreaker
// fails fast once a backend has failed repeatedly, then lets a probe call
// through after a cooldown:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("tone"))
//	err := cb.Execute(func() error {
//	    return resilience.RetryFunc(ctx, resilience.DefaultRetryConfig(), call)
//	})
package resilience
