package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/resilience"
)

// ResilienceConfig bundles optional policies. Nil fields are skipped.
type ResilienceConfig struct {
	CircuitBreaker *resilience.CircuitBreakerConfig
	Retry          *resilience.RetryConfig
}

// IsEmpty reports whether no policy is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Retry == nil
}

// WithResilience applies CircuitBreaker → Retry → Execute. The breaker is
// created once per wrapped provider and shared by all calls through it.
func WithResilience[I, O any](cfg ResilienceConfig) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if cfg.IsEmpty() {
			return inner
		}
		r := &resilientRR[I, O]{wrapped: wrapped[I, O]{inner}, retry: cfg.Retry}
		if cfg.CircuitBreaker != nil {
			r.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
		}
		return r
	}
}

type resilientRR[I, O any] struct {
	wrapped[I, O]
	breaker *resilience.CircuitBreaker
	retry   *resilience.RetryConfig
}

// IsAvailable is false while the circuit is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if r.breaker != nil && r.breaker.State() == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	call := func() (O, error) { return r.inner.Execute(ctx, input) }

	if r.retry != nil {
		cfg := *r.retry
		once := call
		call = func() (O, error) {
			return resilience.Retry(ctx, cfg, func(context.Context) (O, error) { return once() })
		}
	}

	if r.breaker == nil {
		return call()
	}
	out, err := resilience.Call(r.breaker, call)
	return out, wrapResilienceError(r.inner.Name(), err)
}

// wrapResilienceError turns resilience sentinels into AppErrors and leaves
// everything else untouched.
func wrapResilienceError(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable(name).WithCause(err)
	case errors.Is(err, resilience.ErrBulkheadFull), errors.Is(err, resilience.ErrBulkheadTimeout):
		return apperrors.ServiceUnavailable(name).WithCause(err).WithDetail("reason", "concurrency limit reached")
	default:
		return err
	}
}
