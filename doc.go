// Package loom provides a factory-based dependency injection container for
// Go 1.25+.
//
// Loom resolves plain factory functions instead of registered type keys:
// a factory is a value, its identity is its pointer, and a container is
// the cache, override table, and teardown registry for the factories it
// has resolved. There is no runtime reflection and no registration step.
//
// # Quick Start
//
// Declare factories and resolve them through a container:
//
//	var config = loom.NewFactory(func(ctx context.Context, c *loom.Container) (*Config, error) {
//	    return &Config{Port: 8080}, nil
//	}, loom.WithName("config"))
//
//	var server = loom.NewFactory(func(ctx context.Context, c *loom.Container) (*Server, error) {
//	    cfg, err := loom.Get(ctx, c, config)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Server{config: cfg}, nil
//	}, loom.WithName("server"))
//
//	c := loom.New()
//	srv, err := loom.Get(ctx, c, server)
//
// # Resolution
//
// A non-transient factory resolves at most once per container: the first
// Get caches the value, concurrent Gets share the in-flight resolution,
// and later Gets return the cached value by identity. Factories created
// with loom.Transient() re-run on every Get and are never cached.
//
//	v, err := loom.Get(ctx, c, f)     // resolve or return cached
//	v, ok := loom.TryGet(ctx, c, f)   // false instead of error
//	v := loom.MustGet(ctx, c, f)      // panic on error
//	c.Has(f)                          // cached here or in an ancestor?
//
// Cycles are detected per resolution chain: a factory that (transitively)
// resolves itself fails with a CIRCULAR_DEPENDENCY error rendering the
// full chain of display names.
//
// # Scopes
//
// Child containers read through to their parent's cache but keep their own
// cache, overrides, and disposal registry:
//
//	parent := loom.New()
//	parent.Warmup(ctx, config, db)   // shared by all children
//	child := loom.ChildContainer(parent)
//
// A factory first resolved in a child stays invisible to the parent and to
// sibling children. Disposing a child never touches the parent.
//
// # Disposal
//
// Factories register cleanup while they run; Dispose runs the callbacks in
// reverse order, collects every failure, and clears the cache:
//
//	c.OnDispose(func(ctx context.Context) error { return db.Close() })
//	...
//	err := c.Dispose(ctx)
//
// # Overrides
//
// Substitute a factory without touching consumers (testing, environment
// swaps):
//
//	loom.Override(c, db, loom.Value(&fakeDB{}))
//	c.ClearOverrides()
//
// # Decorators
//
// Pipe composes cross-cutting behavior around a factory; decorators apply
// left to right, so the last listed wrapper runs first:
//
//	resilient := loom.Pipe(remoteConfig,
//	    loom.Retry[*Config](3, 100*time.Millisecond),
//	    loom.WithTimeout[*Config](2*time.Second),
//	    loom.CircuitBreaker[*Config]("config", loom.DefaultBreakerConfig()),
//	)
//
// Available decorators: Guard, Validate, ValidateWith, Intercept,
// CatchError, Tap, Transform, Memo, Retry, WithTimeout, Cached,
// KeyedCache, CircuitBreaker, plus the conditional combinators When,
// WhenFunc, IfElse, and IfElseFunc.
//
// # Freezing
//
// Freeze a container once boot is complete to catch late resolutions:
//
//	c.Warmup(ctx, config, db, server)
//	c.Freeze()
//
// # Plugins
//
// Plugins attach behavior through a stable protocol instead of forking the
// engine:
//
//	type Plugin interface {
//	    Name() string
//	    Apply(c *loom.Container, in *loom.Internals) (any, error)
//	}
//
// Internals exposes the cache, override table, and lifecycle hooks
// (before/after resolve, on dispose, on override). Apply a plugin with
// c.Use and fetch its extension surface back with c.Plugin(name).
//
// # Observers
//
// Observe resolutions for metrics integration:
//
//	c := loom.New(
//	    loom.WithResolveObserver(func(name string, d time.Duration, err error) {
//	        metrics.RecordResolve(name, d, err)
//	    }),
//	)
package loom
