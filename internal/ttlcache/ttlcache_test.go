package ttlcache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzypants1989/loom/internal/ttlcache"
)

func TestGetMiss(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.TTL, time.Minute, 0)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.TTL, time.Minute, 0)
	c.Set("k", 42)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, c.Len())
}

func TestEntryExpires(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.TTL, 20*time.Millisecond, 0)
	c.Set("k", "v")

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entries are dropped on read")
}

func TestSlidingExtendsExpiry(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.Sliding, 60*time.Millisecond, 0)
	c.Set("k", "v")

	// keep touching the entry past the original expiry
	for range 4 {
		time.Sleep(30 * time.Millisecond)
		_, ok := c.Get("k")
		require.True(t, ok, "reads must extend the expiry")
	}

	time.Sleep(100 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestClaimRefreshOnlyInsideWindow(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.RefreshAhead, 100*time.Millisecond, 30*time.Millisecond)
	c.Set("k", "v")

	assert.False(t, c.ClaimRefresh("k"), "fresh entry needs no refresh")

	time.Sleep(80 * time.Millisecond)
	assert.True(t, c.ClaimRefresh("k"))
	assert.False(t, c.ClaimRefresh("k"), "a claim is granted once per window")

	c.Set("k", "v2")
	assert.False(t, c.ClaimRefresh("k"), "Set releases the claim and restarts the TTL")
}

func TestClaimRefreshIgnoredInOtherModes(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.TTL, 10*time.Millisecond, 10*time.Millisecond)
	c.Set("k", "v")
	assert.False(t, c.ClaimRefresh("k"))
}

func TestReleaseRefreshAllowsRetry(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.RefreshAhead, 100*time.Millisecond, 90*time.Millisecond)
	c.Set("k", "v")

	require.True(t, c.ClaimRefresh("k"))
	c.ReleaseRefresh("k")
	assert.True(t, c.ClaimRefresh("k"))
}

func TestDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := ttlcache.New(ttlcache.TTL, time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ttl", ttlcache.TTL.String())
	assert.Equal(t, "sliding", ttlcache.Sliding.String())
	assert.Equal(t, "refresh-ahead", ttlcache.RefreshAhead.String())
}
