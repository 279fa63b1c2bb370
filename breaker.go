package loom

import (
	"context"

	"github.com/jazzypants1989/loom/internal/breaker"
)

type (
	Breaker       = breaker.Breaker
	BreakerState  = breaker.State
	BreakerConfig = breaker.Config
)

const (
	BreakerClosed   = breaker.Closed
	BreakerOpen     = breaker.Open
	BreakerHalfOpen = breaker.HalfOpen
)

func DefaultBreakerConfig() BreakerConfig {
	return breaker.DefaultConfig()
}

// NewBreaker builds a standalone circuit for use with WithBreaker, for
// callers that need the handle (manual Reset, state inspection).
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	return breaker.New(name, cfg)
}

// CircuitBreaker guards the wrapped factory with a fresh circuit. One
// circuit exists per CircuitBreaker call: the state lives with the
// decorator, not the container, so it persists across containers resolving
// the same decorated factory.
func CircuitBreaker[T any](name string, cfg BreakerConfig) Decorator[T] {
	return WithBreaker[T](breaker.New(name, cfg))
}

// WithBreaker guards the wrapped factory with an existing circuit. While
// the circuit is open, resolution fails immediately with a CIRCUIT_OPEN
// error and the factory body is never invoked.
func WithBreaker[T any](b *Breaker) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				if !b.Allow() {
					var zero T
					return zero, errCircuitOpen(b.Name(), b.Failures())
				}

				v, err := inner.fn(ctx, c)
				if err != nil {
					b.Failure(err)
					return v, err
				}

				b.Success()
				return v, nil
			},
		)
	}
}
