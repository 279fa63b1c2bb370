// Package loomtest provides test helpers around a loom container: automatic
// disposal through t.Cleanup, fatal-on-error resolution, and one-line
// overrides.
package loomtest

import (
	"context"

	"github.com/jazzypants1989/loom"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestContainer struct {
	*loom.Container
	tb TB
}

// New builds a container that disposes itself when the test finishes.
func New(tb TB, opts ...loom.Option) *TestContainer {
	tb.Helper()

	c := loom.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(
		func() {
			if err := c.Dispose(context.Background()); err != nil {
				tb.Fatalf("failed to dispose container: %v", err)
			}
		},
	)

	return tc
}

// Child builds a child container of tc that is disposed before tc itself.
func (tc *TestContainer) Child(opts ...loom.Option) *TestContainer {
	tc.tb.Helper()

	child := loom.ChildContainer(tc.Container, opts...)
	childTC := &TestContainer{
		Container: child,
		tb:        tc.tb,
	}

	tc.tb.Cleanup(
		func() {
			if err := child.Dispose(context.Background()); err != nil {
				tc.tb.Fatalf("failed to dispose child container: %v", err)
			}
		},
	)

	return childTC
}

// RequireWarmup resolves every factory, failing the test on the first
// error.
func (tc *TestContainer) RequireWarmup(ctx context.Context, factories ...loom.AnyFactory) {
	tc.tb.Helper()

	if _, err := tc.Warmup(ctx, factories...); err != nil {
		tc.tb.Fatalf("warmup failed: %v", err)
	}
}

// RequireGet resolves f, failing the test on error.
func RequireGet[T any](ctx context.Context, tc *TestContainer, f *loom.Factory[T]) T {
	tc.tb.Helper()

	v, err := loom.Get(ctx, tc.Container, f)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %q: %v", name(f), err)
	}
	return v
}

// Override substitutes replacement for original in the test container.
func Override[T any](tc *TestContainer, original, replacement *loom.Factory[T]) {
	tc.tb.Helper()
	loom.Override(tc.Container, original, replacement)
}

// OverrideValue substitutes a fixed value for original.
func OverrideValue[T any](tc *TestContainer, original *loom.Factory[T], value T) {
	tc.tb.Helper()
	loom.Override(tc.Container, original, loom.Value(value))
}

func name(f loom.AnyFactory) string {
	if f.Name() == "" {
		return "anonymous"
	}
	return f.Name()
}
