package loom

import "context"

// Decorator wraps one factory to produce another, layering cross-cutting
// behavior while preserving the factory contract.
type Decorator[T any] func(*Factory[T]) *Factory[T]

// Pipe applies decorators left to right: the first listed decorator wraps
// the factory itself and ends up innermost, so the last listed decorator's
// wrapper runs first when the composed factory is invoked.
//
//	loom.Pipe(db,
//	    loom.Retry[*DB](3, time.Second), // closest to the body
//	    loom.WithTimeout[*DB](5*time.Second), // wraps the retrying factory
//	)
func Pipe[T any](f *Factory[T], decorators ...Decorator[T]) *Factory[T] {
	for _, d := range decorators {
		f = d(f)
	}
	return f
}

// When applies d only when cond holds. The condition is evaluated once, at
// composition time; the false branch returns the factory untouched, with
// zero runtime overhead.
func When[T any](cond bool, d Decorator[T]) Decorator[T] {
	if cond {
		return d
	}
	return func(f *Factory[T]) *Factory[T] { return f }
}

// WhenFunc applies d conditionally per invocation.
func WhenFunc[T any](cond func() bool, d Decorator[T]) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		decorated := d(inner)
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				if cond() {
					return decorated.fn(ctx, c)
				}
				return inner.fn(ctx, c)
			},
		)
	}
}

// IfElse picks between two decorators at composition time.
func IfElse[T any](cond bool, a, b Decorator[T]) Decorator[T] {
	if cond {
		return a
	}
	return b
}

// IfElseFunc picks between two decorators per invocation.
func IfElseFunc[T any](cond func() bool, a, b Decorator[T]) Decorator[T] {
	return func(inner *Factory[T]) *Factory[T] {
		whenTrue := a(inner)
		whenFalse := b(inner)
		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				if cond() {
					return whenTrue.fn(ctx, c)
				}
				return whenFalse.fn(ctx, c)
			},
		)
	}
}
