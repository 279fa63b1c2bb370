package loom

import (
	"context"
	"time"

	"github.com/jazzypants1989/loom/internal/ttlcache"
)

type CacheMode = ttlcache.Mode

const (
	CacheTTL          = ttlcache.TTL
	CacheSliding      = ttlcache.Sliding
	CacheRefreshAhead = ttlcache.RefreshAhead
)

type CacheOption func(*cacheConfig)

type cacheConfig struct {
	mode  CacheMode
	ahead time.Duration
}

// WithSlidingExpiry makes every cache hit push the expiry out by the full
// TTL.
func WithSlidingExpiry() CacheOption {
	return func(cfg *cacheConfig) {
		cfg.mode = CacheSliding
	}
}

// WithRefreshAhead serves the cached value while a hit inside the window
// before expiry refreshes it in the background.
func WithRefreshAhead(window time.Duration) CacheOption {
	return func(cfg *cacheConfig) {
		cfg.mode = CacheRefreshAhead
		cfg.ahead = window
	}
}

// Cached caches the resolved value in the decorator closure for ttl,
// re-invoking the wrapped factory once the entry expires. Like Memo, the
// state lives outside any container and is shared by every container
// resolving this decorated factory.
func Cached[T any](ttl time.Duration, opts ...CacheOption) Decorator[T] {
	return KeyedCache[T](
		func(ctx context.Context) string { return "" }, ttl, opts...,
	)
}

// KeyedCache is Cached with one entry per key, where the key is computed
// from the resolution context on each invocation.
func KeyedCache[T any](keyFn func(ctx context.Context) string, ttl time.Duration, opts ...CacheOption) Decorator[T] {
	cfg := &cacheConfig{mode: CacheTTL}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(inner *Factory[T]) *Factory[T] {
		store := ttlcache.New(cfg.mode, ttl, cfg.ahead)

		return derive(
			inner, func(ctx context.Context, c *Container) (T, error) {
				key := keyFn(ctx)

				if v, ok := store.Get(key); ok {
					if store.ClaimRefresh(key) {
						go refreshEntry(ctx, c, inner, store, key)
					}
					typed, _ := v.(T)
					return typed, nil
				}

				v, err := inner.fn(ctx, c)
				if err != nil {
					return v, err
				}

				store.Set(key, v)
				return v, nil
			},
		)
	}
}

// refreshEntry re-invokes the factory in the background while callers keep
// being served the current entry. A failed refresh releases the claim so a
// later hit can try again.
func refreshEntry[T any](ctx context.Context, c *Container, inner *Factory[T], store *ttlcache.Cache, key string) {
	bg := context.WithoutCancel(ctx)

	v, err := inner.fn(bg, c)
	if err != nil {
		store.ReleaseRefresh(key)
		return
	}
	store.Set(key, v)
}
