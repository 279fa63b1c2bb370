package loom

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Get resolves f in c. Cached values (own cache, then ancestors) are
// returned as-is; otherwise the factory body runs exactly once per
// container, with concurrent callers attaching to the in-flight resolution
// rather than re-invoking it. Failures from the body are wrapped in a
// RESOLUTION_FAILED error carrying the resolution chain at the time of
// failure; typed container errors (circular dependency, guard, timeout and
// friends) propagate unchanged.
func Get[T any](ctx context.Context, c *Container, f *Factory[T]) (T, error) {
	var zero T

	v, err := c.resolve(ctx, f)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errResolutionFailed(
			displayName(f),
			c.chainNames(),
			fmt.Errorf("resolved value has unexpected type %T", v),
		)
	}
	return typed, nil
}

// TryGet is Get returning false instead of an error.
func TryGet[T any](ctx context.Context, c *Container, f *Factory[T]) (T, bool) {
	v, err := Get(ctx, c, f)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// MustGet is Get panicking on error.
func MustGet[T any](ctx context.Context, c *Container, f *Factory[T]) T {
	v, err := Get(ctx, c, f)
	if err != nil {
		panic(err)
	}
	return v
}

// Has reports whether f is cached in this container or any ancestor. It
// never triggers resolution.
func (c *Container) Has(f AnyFactory) bool {
	_, ok := c.state.lookup(f)
	return ok
}

func (c *Container) resolve(ctx context.Context, f AnyFactory) (any, error) {
	if v, ok := c.state.lookup(f); ok {
		return v, nil
	}

	if c.state.isFrozen() {
		return nil, errFrozenContainer(displayName(f))
	}

	// Cycle check runs against the original identity, before override
	// substitution, so an override cannot mask a cycle.
	for i, pending := range c.stack {
		if pending == f {
			chain := make([]string, 0, len(c.stack)-i+1)
			for _, sf := range c.stack[i:] {
				chain = append(chain, displayName(sf))
			}
			chain = append(chain, displayName(f))
			return nil, errCircularDependency(chain)
		}
	}

	target := f
	if repl, ok := c.state.replacement(f); ok {
		target = repl
	}

	if target.isTransient() {
		return c.invoke(ctx, f, target)
	}

	state := c.state
	state.mu.Lock()
	if v, ok := state.cache[f]; ok {
		state.mu.Unlock()
		return v, nil
	}
	if call, ok := state.inflight[f]; ok {
		state.mu.Unlock()
		select {
		case <-call.done:
			return call.val, call.err
		case <-ctx.Done():
			return nil, errCanceled(displayName(f), ctx.Err())
		}
	}
	call := &inflight{done: make(chan struct{})}
	state.inflight[f] = call
	state.mu.Unlock()

	v, err := c.invoke(ctx, f, target)

	// The cache slot is written under the same lock that clears the
	// in-flight marker, so late waiters either find the marker or the
	// settled value, never neither.
	state.mu.Lock()
	delete(state.inflight, f)
	if err == nil {
		state.cache[f] = v
	}
	state.mu.Unlock()

	call.val, call.err = v, err
	close(call.done)

	return v, err
}

// invoke runs target's body under f's identity: hooks, logging, and the
// cache key all use the original factory even when an override substituted
// the body.
func (c *Container) invoke(ctx context.Context, f, target AnyFactory) (any, error) {
	start := time.Now()

	c.state.fireBeforeResolve(f)
	c.state.logger.Debug("resolving factory", "factory", displayName(f))

	session := &Container{
		state: c.state,
		stack: append(c.stack[:len(c.stack):len(c.stack)], f),
	}

	var (
		v   any
		err error
	)
	if d := target.factoryTimeout(); d > 0 {
		v, err = buildWithTimeout(ctx, session, f, target, d)
	} else {
		v, err = target.build(ctx, session)
	}

	elapsed := time.Since(start)
	c.state.observeResolve(f, elapsed, err)

	if err != nil {
		var typed *Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, errResolutionFailed(displayName(f), session.chainNames(), err)
	}

	c.state.fireAfterResolve(f, v, elapsed)
	return v, nil
}

// buildWithTimeout races the body against a timer. A body that settles
// after the timer fired is abandoned: its result is discarded and never
// reaches the cache.
func buildWithTimeout(ctx context.Context, session *Container, f, target AnyFactory, d time.Duration) (any, error) {
	type result struct {
		val any
		err error
	}

	ch := make(chan result, 1)
	go func() {
		v, err := target.build(ctx, session)
		ch <- result{val: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-timer.C:
		return nil, errTimeout(displayName(f), d)
	case <-ctx.Done():
		return nil, errCanceled(displayName(f), ctx.Err())
	}
}

func (c *Container) chainNames() []string {
	names := make([]string, len(c.stack))
	for i, f := range c.stack {
		names[i] = displayName(f)
	}
	return names
}
