// Package ttlcache implements the expiry state machine behind the cache
// decorators. Three modes: plain TTL, sliding (reads extend the expiry),
// and refresh-ahead (reads near expiry serve the current value and claim a
// background refresh).
package ttlcache

import (
	"sync"
	"time"
)

type Mode int

const (
	TTL Mode = iota
	Sliding
	RefreshAhead
)

func (m Mode) String() string {
	switch m {
	case TTL:
		return "ttl"
	case Sliding:
		return "sliding"
	case RefreshAhead:
		return "refresh-ahead"
	default:
		return "unknown"
	}
}

type Cache struct {
	mu    sync.Mutex
	mode  Mode
	ttl   time.Duration
	ahead time.Duration
	items map[string]*item
}

type item struct {
	val        any
	expiresAt  time.Time
	refreshing bool
}

// New builds a cache. ahead matters only in RefreshAhead mode: a read
// within ahead of the expiry triggers a refresh claim.
func New(mode Mode, ttl, ahead time.Duration) *Cache {
	return &Cache{
		mode:  mode,
		ttl:   ttl,
		ahead: ahead,
		items: make(map[string]*item),
	}
}

// Get returns the live value for key. In Sliding mode a hit pushes the
// expiry out by the full TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}

	now := time.Now()
	if now.After(it.expiresAt) {
		delete(c.items, key)
		return nil, false
	}

	if c.mode == Sliding {
		it.expiresAt = now.Add(c.ttl)
	}

	return it.val, true
}

// Set stores val under key with a fresh TTL and releases any refresh claim.
func (c *Cache) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &item{
		val:       val,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// ClaimRefresh reports whether the caller should refresh key: true exactly
// once per expiry window, when the mode is RefreshAhead and the entry is
// inside the ahead window. The claim is released by the next Set.
func (c *Cache) ClaimRefresh(key string) bool {
	if c.mode != RefreshAhead {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok || it.refreshing {
		return false
	}

	if time.Until(it.expiresAt) > c.ahead {
		return false
	}

	it.refreshing = true
	return true
}

// ReleaseRefresh abandons a refresh claim after a failed refresh so a later
// read can try again.
func (c *Cache) ReleaseRefresh(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[key]; ok {
		it.refreshing = false
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*item)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
