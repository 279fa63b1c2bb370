package loom

import (
	"context"
	"sync"
	"time"
)

// InterceptContext describes the factory an interceptor is wrapping.
type InterceptContext struct {
	FactoryName string
}

// Next triggers the wrapped factory from inside an interceptor.
type Next[T any] func() (T, error)

// Guard runs check before the wrapped factory. An error from check
// propagates as-is; false fails with a GUARD_REJECTED error naming the
// factory; true lets resolution proceed.
func Guard[T any](check func(ctx context.Context) (bool, error)) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				ok, err := check(ctx)
				if err != nil {
					var zero T
					return zero, err
				}
				if !ok {
					var zero T
					return zero, errGuardRejected(displayName(inner))
				}
				return inner.fn(ctx, c)
			},
		)
	}
}

// Schema is the parse-style validator contract, for callers carrying
// schema objects rather than plain functions.
type Schema[T any] interface {
	Parse(v T) (T, error)
}

// Validate passes the resolved value through fn, which may transform it or
// return an error to reject it. Failures surface as VALIDATION_FAILED
// wrapping the cause.
func Validate[T any](fn func(v T) (T, error)) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				v, err := inner.fn(ctx, c)
				if err != nil {
					return v, err
				}

				validated, err := fn(v)
				if err != nil {
					var zero T
					return zero, errValidationFailed(displayName(inner), err)
				}
				return validated, nil
			},
		)
	}
}

// ValidateWith is Validate for Schema-shaped validators.
func ValidateWith[T any](schema Schema[T]) Decorator[T] {
	return Validate[T](schema.Parse)
}

// Intercept hands full control of the invocation to fn: calling next runs
// the wrapped factory, and fn's return value becomes the resolved value.
func Intercept[T any](fn func(ctx context.Context, ic *InterceptContext, next Next[T]) (T, error)) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				ic := &InterceptContext{FactoryName: displayName(inner)}
				next := func() (T, error) {
					return inner.fn(ctx, c)
				}
				return fn(ctx, ic, next)
			},
		)
	}
}

// CatchError calls handler when the wrapped factory fails; the handler's
// return value becomes the resolved value, or it may return an error to
// keep propagating.
func CatchError[T any](handler func(ctx context.Context, ic *InterceptContext, err error) (T, error)) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				v, err := inner.fn(ctx, c)
				if err == nil {
					return v, nil
				}
				return handler(ctx, &InterceptContext{FactoryName: displayName(inner)}, err)
			},
		)
	}
}

// Tap fires a side effect with the resolved value.
func Tap[T any](fn func(v T)) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				v, err := inner.fn(ctx, c)
				if err != nil {
					return v, err
				}
				fn(v)
				return v, nil
			},
		)
	}
}

// Transform substitutes the mapped value as the result.
func Transform[T any](fn func(v T) (T, error)) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				v, err := inner.fn(ctx, c)
				if err != nil {
					return v, err
				}
				return fn(v)
			},
		)
	}
}

// Memo caches the first successful resolution in the decorator closure
// itself, outside any container: every container resolving this exact
// decorated factory shares the one value for the life of the process. This
// deliberately breaks per-container isolation; reach for the container
// cache unless cross-container sharing is the point.
func Memo[T any]() Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		var (
			mu   sync.Mutex
			done bool
			val  T
		)
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				mu.Lock()
				defer mu.Unlock()

				if done {
					return val, nil
				}

				v, err := inner.fn(ctx, c)
				if err != nil {
					return v, err
				}

				val, done = v, true
				return v, nil
			},
		)
	}
}

// Retry re-invokes the wrapped factory up to attempts total tries, sleeping
// a fixed delay between tries (no backoff). The last error propagates when
// attempts are exhausted, and a canceled context cuts the loop short.
func Retry[T any](attempts int, delay time.Duration) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				var (
					v       T
					lastErr error
				)
				for attempt := 0; attempt < attempts; attempt++ {
					if attempt > 0 && delay > 0 {
						timer := time.NewTimer(delay)
						select {
						case <-timer.C:
						case <-ctx.Done():
							timer.Stop()
							var zero T
							return zero, errCanceled(displayName(inner), ctx.Err())
						}
					}

					v, lastErr = inner.fn(ctx, c)
					if lastErr == nil {
						return v, nil
					}
				}

				var zero T
				return zero, lastErr
			},
		)
	}
}

// WithTimeout races the wrapped factory against a timer. When the timer
// wins, resolution fails with a TIMEOUT error naming the factory and the
// configured duration; the body keeps running in its goroutine but its
// eventual result is discarded and never cached.
func WithTimeout[T any](d time.Duration) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				type result struct {
					val T
					err error
				}

				ch := make(chan result, 1)
				go func() {
					v, err := inner.fn(ctx, c)
					ch <- result{val: v, err: err}
				}()

				timer := time.NewTimer(d)
				defer timer.Stop()

				select {
				case r := <-ch:
					return r.val, r.err
				case <-timer.C:
					var zero T
					return zero, errTimeout(displayName(inner), d)
				case <-ctx.Done():
					var zero T
					return zero, errCanceled(displayName(inner), ctx.Err())
				}
			},
		)
	}
}
