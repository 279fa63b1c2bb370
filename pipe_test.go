package loom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzypants1989/loom"
)

// recordingDecorator appends label when its wrapper starts executing.
func recordingDecorator(label string, order *[]string) loom.Decorator[int] {
	return func(inner *loom.Factory[int]) *loom.Factory[int] {
		wrapped := loom.Intercept[int](
			func(ctx context.Context, ic *loom.InterceptContext, next loom.Next[int]) (int, error) {
				*order = append(*order, label)
				return next()
			},
		)
		return wrapped(inner)
	}
}

func TestPipeComposesLeftToRight(t *testing.T) {
	t.Parallel()

	var order []string
	base := loom.NewFactory(
		func(ctx context.Context, c *loom.Container) (int, error) {
			order = append(order, "body")
			return 1, nil
		}, loom.WithName("base"),
	)

	composed := loom.Pipe(
		base,
		recordingDecorator("first", &order),
		recordingDecorator("second", &order),
		recordingDecorator("third", &order),
	)

	c := loom.New()
	_, err := loom.Get(t.Context(), c, composed)
	require.NoError(t, err)

	// last listed decorator is outermost: its wrapper runs first
	assert.Equal(t, []string{"third", "second", "first", "body"}, order)
}

func TestPipeKeepsDistinctIdentity(t *testing.T) {
	t.Parallel()

	base := configFactory()
	composed := loom.Pipe(base, loom.Tap[*Config](func(v *Config) {}))

	c := loom.New()
	_, err := loom.Get(t.Context(), c, composed)
	require.NoError(t, err)

	assert.True(t, c.Has(composed))
	assert.False(t, c.Has(base), "decorated factory has its own identity")
}

func TestWhenAppliesAtCompositionTime(t *testing.T) {
	t.Parallel()

	applied := 0
	double := func(inner *loom.Factory[int]) *loom.Factory[int] {
		applied++
		return loom.Transform[int](func(v int) (int, error) { return v * 2, nil })(inner)
	}

	base := loom.Value(21)
	on := loom.Pipe(base, loom.When(true, loom.Decorator[int](double)))
	off := loom.Pipe(base, loom.When(false, loom.Decorator[int](double)))

	assert.Equal(t, 1, applied, "false branch never applies the decorator")
	assert.Same(t, base, off, "false branch returns the factory untouched")

	c := loom.New()
	v, err := loom.Get(t.Context(), c, on)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestWhenFuncEvaluatesPerUse(t *testing.T) {
	t.Parallel()

	enabled := false
	double := loom.Transform[int](func(v int) (int, error) { return v * 2, nil })

	f := loom.Pipe(
		loom.NewFactory(
			func(ctx context.Context, c *loom.Container) (int, error) { return 21, nil },
			loom.Transient(),
		),
		loom.WhenFunc(func() bool { return enabled }, double),
	)

	c := loom.New()

	v, err := loom.Get(t.Context(), c, f)
	require.NoError(t, err)
	assert.Equal(t, 21, v)

	enabled = true
	v, err = loom.Get(t.Context(), c, f)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestIfElse(t *testing.T) {
	t.Parallel()

	double := loom.Transform[int](func(v int) (int, error) { return v * 2, nil })
	triple := loom.Transform[int](func(v int) (int, error) { return v * 3, nil })

	c := loom.New()

	a := loom.Pipe(loom.Value(10), loom.IfElse(true, double, triple))
	b := loom.Pipe(loom.Value(10), loom.IfElse(false, double, triple))

	va, err := loom.Get(t.Context(), c, a)
	require.NoError(t, err)
	vb, err := loom.Get(t.Context(), c, b)
	require.NoError(t, err)

	assert.Equal(t, 20, va)
	assert.Equal(t, 30, vb)
}

func TestIfElseFunc(t *testing.T) {
	t.Parallel()

	double := loom.Transform[int](func(v int) (int, error) { return v * 2, nil })
	triple := loom.Transform[int](func(v int) (int, error) { return v * 3, nil })

	useDouble := true
	f := loom.Pipe(
		loom.NewFactory(
			func(ctx context.Context, c *loom.Container) (int, error) { return 10, nil },
			loom.Transient(),
		),
		loom.IfElseFunc(func() bool { return useDouble }, double, triple),
	)

	c := loom.New()

	v, err := loom.Get(t.Context(), c, f)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	useDouble = false
	v, err = loom.Get(t.Context(), c, f)
	require.NoError(t, err)
	assert.Equal(t, 30, v)
}
