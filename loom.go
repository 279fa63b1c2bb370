package loom

import (
	"context"
	"log/slog"
	"sync"
)

// Container resolves factories, caches their results, and manages teardown.
//
// A Container value is a view onto shared state: the engine hands factory
// bodies a fresh view carrying the resolution chain of the current call, so
// nested Get calls see the in-flight stack while all views share one cache,
// override map, and disposal registry.
type Container struct {
	state *containerState
	stack []AnyFactory
}

type containerState struct {
	mu        sync.RWMutex
	parent    *Container
	cache     map[AnyFactory]any
	overrides map[AnyFactory]AnyFactory
	inflight  map[AnyFactory]*inflight
	disposers []disposer
	plugins   map[string]any
	hooks     hookSet
	frozen    bool
	logger    *slog.Logger
}

type inflight struct {
	done chan struct{}
	val  any
	err  error
}

type disposer struct {
	fn  func(ctx context.Context) error
	src AnyFactory
}

func New(opts ...Option) *Container {
	return newContainer(nil, slog.Default(), opts)
}

// ChildContainer creates a scope under parent: cache reads fall through to
// the parent chain, while this container's own resolutions, overrides, and
// dispose callbacks stay local. Disposing the child never touches the
// parent, and siblings never see each other's cache.
func ChildContainer(parent *Container, opts ...Option) *Container {
	return newContainer(parent, parent.state.logger, opts)
}

func newContainer(parent *Container, logger *slog.Logger, opts []Option) *Container {
	cfg := &containerConfig{
		logger: logger,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Container{
		state: &containerState{
			parent:    parent,
			cache:     make(map[AnyFactory]any),
			overrides: make(map[AnyFactory]AnyFactory),
			inflight:  make(map[AnyFactory]*inflight),
			plugins:   make(map[string]any),
			hooks:     cfg.hooks,
			logger:    cfg.logger,
		},
	}
}

// Parent returns the parent container, or nil for a root container.
func (c *Container) Parent() *Container {
	return c.state.parent
}

// lookup checks this container's cache, then walks up the parent chain.
func (s *containerState) lookup(f AnyFactory) (any, bool) {
	s.mu.RLock()
	v, ok := s.cache[f]
	parent := s.parent
	s.mu.RUnlock()

	if ok {
		return v, true
	}
	if parent != nil {
		return parent.state.lookup(f)
	}
	return nil, false
}

func (s *containerState) isFrozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

func (s *containerState) replacement(f AnyFactory) (AnyFactory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	repl, ok := s.overrides[f]
	return repl, ok
}

// Freeze marks the container so that resolving any factory not already in
// cache fails with a FROZEN_CONTAINER error. Cached factories stay
// accessible. Intended as a production guard against late resolutions.
func (c *Container) Freeze() *Container {
	c.state.mu.Lock()
	c.state.frozen = true
	c.state.mu.Unlock()
	return c
}

// Warmup resolves each factory in this container so that children created
// afterward share the cached results. Returns the container for chaining.
func (c *Container) Warmup(ctx context.Context, factories ...AnyFactory) (*Container, error) {
	for _, f := range factories {
		if _, err := c.resolve(ctx, f); err != nil {
			return c, err
		}
	}
	return c, nil
}

// ClearCache drops every cached value in this container. Parent caches and
// the disposal registry are untouched.
func (c *Container) ClearCache() {
	c.state.mu.Lock()
	c.state.cache = make(map[AnyFactory]any)
	c.state.mu.Unlock()
}

// ClearOverrides drops every registered override in this container.
func (c *Container) ClearOverrides() {
	c.state.mu.Lock()
	c.state.overrides = make(map[AnyFactory]AnyFactory)
	c.state.mu.Unlock()
}

// Size returns the number of values cached in this container (parents
// excluded).
func (c *Container) Size() int {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return len(c.state.cache)
}

// Keys returns the display names of the factories cached in this container.
func (c *Container) Keys() []string {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()

	keys := make([]string, 0, len(c.state.cache))
	for f := range c.state.cache {
		keys = append(keys, displayName(f))
	}
	return keys
}
