package loom

import (
	"context"
	"errors"
)

// OnDispose appends fn to the disposal registry. Factories call this on the
// container they receive to tie resource cleanup to the container's
// lifetime:
//
//	var db = loom.NewFactory(func(ctx context.Context, c *loom.Container) (*DB, error) {
//	    db, err := openDB(ctx)
//	    if err != nil {
//	        return nil, err
//	    }
//	    c.OnDispose(func(ctx context.Context) error { return db.Close() })
//	    return db, nil
//	})
func (c *Container) OnDispose(fn func(ctx context.Context) error) {
	var src AnyFactory
	if len(c.stack) > 0 {
		src = c.stack[len(c.stack)-1]
	}

	c.state.mu.Lock()
	c.state.disposers = append(c.state.disposers, disposer{fn: fn, src: src})
	c.state.mu.Unlock()
}

// Dispose runs the disposal registry in strict reverse (LIFO) order and
// clears this container's cache. Every callback runs exactly once even when
// earlier ones fail; failures are aggregated into a single DISPOSE_FAILED
// error after all have run. A second call is a no-op. Parent containers are
// never touched.
func (c *Container) Dispose(ctx context.Context) error {
	c.state.mu.Lock()
	disposers := c.state.disposers
	c.state.disposers = nil
	c.state.cache = make(map[AnyFactory]any)
	c.state.mu.Unlock()

	var errs []error
	for i := len(disposers) - 1; i >= 0; i-- {
		d := disposers[i]
		c.state.fireOnDispose(d.src)
		c.state.logger.Debug("running dispose callback", "factory", displayName(d.src))

		if err := d.fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errDisposeFailed(errors.Join(errs...))
	}
	return nil
}
