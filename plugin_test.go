package loom_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzypants1989/loom"
)

// resolveRecorder is a minimal observability plugin: it counts resolutions
// through the hook arrays and exposes the counts as its extension surface.
type resolveRecorder struct{}

type resolveCounts struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *resolveCounts) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

func (resolveRecorder) Name() string { return "resolve-recorder" }

func (resolveRecorder) Apply(c *loom.Container, in *loom.Internals) (any, error) {
	ext := &resolveCounts{counts: make(map[string]int)}

	in.AfterResolve(
		func(f loom.AnyFactory, value any, elapsed time.Duration) {
			ext.mu.Lock()
			ext.counts[f.Name()]++
			ext.mu.Unlock()
		},
	)

	return ext, nil
}

func TestPluginObservesResolutions(t *testing.T) {
	t.Parallel()

	c := loom.New()
	require.NoError(t, c.Use(resolveRecorder{}))

	_, err := loom.Get(t.Context(), c, configFactory())
	require.NoError(t, err)

	ext, ok := c.Plugin("resolve-recorder")
	require.True(t, ok)

	counts, ok := ext.(*resolveCounts)
	require.True(t, ok)
	assert.Equal(t, 1, counts.Count("config"))
}

func TestPluginNotFound(t *testing.T) {
	t.Parallel()

	c := loom.New()
	_, ok := c.Plugin("missing")
	assert.False(t, ok)
}

// seedPlugin pre-populates the cache through Internals, the way a preset
// bundle would.
type seedPlugin struct {
	factory loom.AnyFactory
	value   any
}

func (seedPlugin) Name() string { return "seed" }

func (p seedPlugin) Apply(c *loom.Container, in *loom.Internals) (any, error) {
	in.SetCached(p.factory, p.value)
	return nil, nil
}

func TestPluginCanSeedCache(t *testing.T) {
	t.Parallel()

	var calls int
	f := loom.NewFactory(
		func(ctx context.Context, c *loom.Container) (*Config, error) {
			calls++
			return &Config{Port: 1}, nil
		}, loom.WithName("config"),
	)

	seeded := &Config{Port: 7777}
	c := loom.New()
	require.NoError(t, c.Use(seedPlugin{factory: f, value: seeded}))

	got, err := loom.Get(t.Context(), c, f)
	require.NoError(t, err)
	assert.Same(t, seeded, got)
	assert.Zero(t, calls, "a cache write is indistinguishable from a settled resolution")

	require.True(t, c.Has(f))
}

// evictPlugin deletes a cached entry, forcing re-resolution.
type evictPlugin struct{ factory loom.AnyFactory }

func (evictPlugin) Name() string { return "evict" }

func (p evictPlugin) Apply(c *loom.Container, in *loom.Internals) (any, error) {
	in.DeleteCached(p.factory)
	return nil, nil
}

func TestPluginCanEvict(t *testing.T) {
	t.Parallel()

	f := configFactory()
	c := loom.New()
	_, err := loom.Get(t.Context(), c, f)
	require.NoError(t, err)

	require.NoError(t, c.Use(evictPlugin{factory: f}))
	assert.False(t, c.Has(f))
}

func TestInternalsListsCachedFactories(t *testing.T) {
	t.Parallel()

	f := configFactory()
	c := loom.New()
	_, err := loom.Get(t.Context(), c, f)
	require.NoError(t, err)

	var listed []loom.AnyFactory
	collect := pluginFunc{
		name: "collect",
		apply: func(c *loom.Container, in *loom.Internals) (any, error) {
			listed = in.CachedFactories()
			return nil, nil
		},
	}
	require.NoError(t, c.Use(collect))

	require.Len(t, listed, 1)
	assert.Equal(t, "config", listed[0].Name())
}

func TestPluginOverrideHook(t *testing.T) {
	t.Parallel()

	var observed []string
	watch := pluginFunc{
		name: "watch-overrides",
		apply: func(c *loom.Container, in *loom.Internals) (any, error) {
			in.OnOverride(
				func(original, replacement loom.AnyFactory) {
					observed = append(observed, original.Name()+"->"+replacement.Name())
				},
			)
			return nil, nil
		},
	}

	c := loom.New()
	require.NoError(t, c.Use(watch))

	original := loom.Value(&Config{}, loom.WithName("config"))
	replacement := loom.Value(&Config{}, loom.WithName("config-test"))
	loom.Override(c, original, replacement)

	assert.Equal(t, []string{"config->config-test"}, observed)

	repl, ok := pluginInternals(t, c, original)
	require.True(t, ok)
	assert.Equal(t, "config-test", repl.Name())
}

type pluginFunc struct {
	name  string
	apply func(c *loom.Container, in *loom.Internals) (any, error)
}

func (p pluginFunc) Name() string { return p.name }

func (p pluginFunc) Apply(c *loom.Container, in *loom.Internals) (any, error) {
	return p.apply(c, in)
}

// pluginInternals fetches the active override for f via a throwaway plugin.
func pluginInternals(t *testing.T, c *loom.Container, f loom.AnyFactory) (loom.AnyFactory, bool) {
	t.Helper()

	var (
		repl  loom.AnyFactory
		found bool
	)
	probe := pluginFunc{
		name: "probe",
		apply: func(c *loom.Container, in *loom.Internals) (any, error) {
			repl, found = in.OverrideFor(f)
			return nil, nil
		},
	}
	require.NoError(t, c.Use(probe))
	return repl, found
}

func TestPluginSeesResolutionStack(t *testing.T) {
	t.Parallel()

	var depth int
	inspect := pluginFunc{
		name: "stack-inspector",
		apply: func(c *loom.Container, in *loom.Internals) (any, error) {
			in.BeforeResolve(func(f loom.AnyFactory) {})
			return nil, nil
		},
	}

	inner := loom.NewFactory(
		func(ctx context.Context, c *loom.Container) (int, error) {
			probe := pluginFunc{
				name: "depth-probe",
				apply: func(pc *loom.Container, in *loom.Internals) (any, error) {
					depth = len(in.Stack(c))
					return nil, nil
				},
			}
			return 1, c.Use(probe)
		}, loom.WithName("inner"),
	)
	outer := loom.NewFactory(
		func(ctx context.Context, c *loom.Container) (int, error) {
			return loom.Get(ctx, c, inner)
		}, loom.WithName("outer"),
	)

	c := loom.New()
	require.NoError(t, c.Use(inspect))

	_, err := loom.Get(t.Context(), c, outer)
	require.NoError(t, err)
	assert.Equal(t, 2, depth, "the session stack reflects the in-flight chain")
}
