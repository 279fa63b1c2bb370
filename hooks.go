package loom

import (
	"time"
)

// BeforeResolveHook fires just before a factory body runs. Cache hits do not
// fire hooks.
type BeforeResolveHook func(f AnyFactory)

// AfterResolveHook fires after a factory body has settled successfully.
type AfterResolveHook func(f AnyFactory, value any, elapsed time.Duration)

// DisposeHook fires for each dispose callback as the container runs its
// registry; f is the factory that registered the callback, nil when the
// callback was registered outside a resolution.
type DisposeHook func(f AnyFactory)

// OverrideHook fires when an override is registered.
type OverrideHook func(original, replacement AnyFactory)

// ResolveObserver receives the outcome of every actual resolution (cache
// misses only), success or failure, for metrics integration.
type ResolveObserver func(name string, elapsed time.Duration, err error)

type hookSet struct {
	beforeResolve []BeforeResolveHook
	afterResolve  []AfterResolveHook
	onDispose     []DisposeHook
	onOverride    []OverrideHook
	observers     []ResolveObserver
}

func (s *containerState) fireBeforeResolve(f AnyFactory) {
	s.mu.RLock()
	hooks := s.hooks.beforeResolve
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(f)
	}
}

func (s *containerState) fireAfterResolve(f AnyFactory, value any, elapsed time.Duration) {
	s.mu.RLock()
	hooks := s.hooks.afterResolve
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(f, value, elapsed)
	}
}

func (s *containerState) fireOnDispose(f AnyFactory) {
	s.mu.RLock()
	hooks := s.hooks.onDispose
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(f)
	}
}

func (s *containerState) fireOnOverride(original, replacement AnyFactory) {
	s.mu.RLock()
	hooks := s.hooks.onOverride
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(original, replacement)
	}
}

func (s *containerState) observeResolve(f AnyFactory, elapsed time.Duration, err error) {
	s.mu.RLock()
	observers := s.hooks.observers
	s.mu.RUnlock()

	for _, observer := range observers {
		observer(displayName(f), elapsed, err)
	}
}
