package loom

import (
	"context"
	"time"
)

// Func is the factory calling convention: every unit of construction is a
// function from a container to an instance. Dependencies are pulled inside
// the body via Get on the container the engine passes in.
type Func[T any] func(ctx context.Context, c *Container) (T, error)

// Factory is the unit of injectable construction. Identity is pointer
// identity: two factories built from the same function are still distinct,
// and the container keys its cache on the pointer, never on the name.
// Factories are immutable once created and live for the process lifetime.
type Factory[T any] struct {
	fn        Func[T]
	name      string
	transient bool
	timeout   time.Duration
}

// AnyFactory is the untyped handle to a Factory of any T. It is sealed:
// only *Factory[T] implements it.
type AnyFactory interface {
	Name() string
	isTransient() bool
	factoryTimeout() time.Duration
	build(ctx context.Context, c *Container) (any, error)
}

type FactoryOption func(*factoryConfig)

type factoryConfig struct {
	name      string
	transient bool
	timeout   time.Duration
}

// WithName sets the display name used in error chains and hooks.
func WithName(name string) FactoryOption {
	return func(cfg *factoryConfig) {
		cfg.name = name
	}
}

// Transient marks the factory as resolve-per-call: results are never cached
// and concurrent calls never share an invocation.
func Transient() FactoryOption {
	return func(cfg *factoryConfig) {
		cfg.transient = true
	}
}

// WithFactoryTimeout bounds every invocation of this factory; a resolution
// that does not settle in time fails with a TIMEOUT error.
func WithFactoryTimeout(d time.Duration) FactoryOption {
	return func(cfg *factoryConfig) {
		cfg.timeout = d
	}
}

func NewFactory[T any](fn Func[T], opts ...FactoryOption) *Factory[T] {
	cfg := &factoryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Factory[T]{
		fn:        fn,
		name:      cfg.name,
		transient: cfg.transient,
		timeout:   cfg.timeout,
	}
}

// Value wraps an already-built instance as a factory.
func Value[T any](v T, opts ...FactoryOption) *Factory[T] {
	return NewFactory(
		func(ctx context.Context, c *Container) (T, error) {
			return v, nil
		}, opts...,
	)
}

func (f *Factory[T]) Name() string {
	return f.name
}

func (f *Factory[T]) isTransient() bool {
	return f.transient
}

func (f *Factory[T]) factoryTimeout() time.Duration {
	return f.timeout
}

func (f *Factory[T]) build(ctx context.Context, c *Container) (any, error) {
	return f.fn(ctx, c)
}

// derive builds a wrapper factory that keeps the wrapped factory's name and
// options but has its own identity. Decorators use it so that a decorated
// factory still renders under a recognizable name.
func derive[T any](inner *Factory[T], fn Func[T]) *Factory[T] {
	return &Factory[T]{
		fn:        fn,
		name:      inner.name,
		transient: inner.transient,
		timeout:   inner.timeout,
	}
}

// displayName substitutes the literal "anonymous" for unnamed factories.
func displayName(f AnyFactory) string {
	if f == nil || f.Name() == "" {
		return "anonymous"
	}
	return f.Name()
}
