package loom

// Plugin attaches behavior to a container without forking the engine:
// observability, testing helpers, and debug tooling all hang off this
// protocol. Apply receives the container plus an Internals handle and
// returns the plugin's extension surface, retrievable later via
// Container.Plugin. Plugins observe and extend; they cannot bypass cycle
// detection because the only way to run a factory is still Get.
type Plugin interface {
	Name() string
	Apply(c *Container, in *Internals) (any, error)
}

// Use applies a plugin to this container and stores its extension surface
// under the plugin's name.
func (c *Container) Use(p Plugin) error {
	ext, err := p.Apply(c, &Internals{state: c.state})
	if err != nil {
		return err
	}

	c.state.mu.Lock()
	c.state.plugins[p.Name()] = ext
	c.state.mu.Unlock()

	return nil
}

// Plugin returns the extension surface a plugin registered under name.
func (c *Container) Plugin(name string) (any, bool) {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()

	ext, ok := c.state.plugins[name]
	return ext, ok
}

// Internals grants plugins direct access to a container's state: the cache,
// the override map, and the hook lists. Mutations made here obey the same
// invariants as the engine's own (a cache write is indistinguishable from a
// resolution having settled).
type Internals struct {
	state *containerState
}

func (in *Internals) Cached(f AnyFactory) (any, bool) {
	in.state.mu.RLock()
	defer in.state.mu.RUnlock()
	v, ok := in.state.cache[f]
	return v, ok
}

func (in *Internals) SetCached(f AnyFactory, v any) {
	in.state.mu.Lock()
	in.state.cache[f] = v
	in.state.mu.Unlock()
}

func (in *Internals) DeleteCached(f AnyFactory) {
	in.state.mu.Lock()
	delete(in.state.cache, f)
	in.state.mu.Unlock()
}

// CachedFactories returns the factories currently cached in the container
// (parents excluded).
func (in *Internals) CachedFactories() []AnyFactory {
	in.state.mu.RLock()
	defer in.state.mu.RUnlock()

	factories := make([]AnyFactory, 0, len(in.state.cache))
	for f := range in.state.cache {
		factories = append(factories, f)
	}
	return factories
}

func (in *Internals) OverrideFor(f AnyFactory) (AnyFactory, bool) {
	return in.state.replacement(f)
}

// Stack returns a copy of the resolution chain of the given container view.
// Factory bodies receive a view whose stack reflects the in-flight chain;
// the copy keeps plugins from mutating cycle-detection state.
func (in *Internals) Stack(c *Container) []AnyFactory {
	stack := make([]AnyFactory, len(c.stack))
	copy(stack, c.stack)
	return stack
}

func (in *Internals) BeforeResolve(hook BeforeResolveHook) {
	in.state.mu.Lock()
	in.state.hooks.beforeResolve = append(in.state.hooks.beforeResolve, hook)
	in.state.mu.Unlock()
}

func (in *Internals) AfterResolve(hook AfterResolveHook) {
	in.state.mu.Lock()
	in.state.hooks.afterResolve = append(in.state.hooks.afterResolve, hook)
	in.state.mu.Unlock()
}

func (in *Internals) OnDispose(hook DisposeHook) {
	in.state.mu.Lock()
	in.state.hooks.onDispose = append(in.state.hooks.onDispose, hook)
	in.state.mu.Unlock()
}

func (in *Internals) OnOverride(hook OverrideHook) {
	in.state.mu.Lock()
	in.state.hooks.onOverride = append(in.state.hooks.onOverride, hook)
	in.state.mu.Unlock()
}
