package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New[string](10)

	c.Set("a", "hello", 100*time.Millisecond)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestGetMissingKey(t *testing.T) {
	c := New[int](10)

	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	c := New[string](10)

	c.Set("a", "hello", 100*time.Millisecond)

	_, ok := c.Get("a")
	require.True(t, ok, "entry should be live immediately after Set")

	time.Sleep(150 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "entry should be expired after sleeping past its TTL")

	// the expired entry was removed on read
	assert.Equal(t, 0, c.Size())
}

func TestSizeDoesNotPruneExpired(t *testing.T) {
	c := New[string](10)

	c.Set("a", "hello", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	// Size counts the stale entry until it is next read
	assert.Equal(t, 1, c.Size())

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestEvictionAtCapacity(t *testing.T) {
	const capacity = 3

	c := New[int](capacity)

	for i := 0; i < capacity; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i, time.Minute)
	}

	require.Equal(t, capacity, c.Size())

	// inserting one more new key evicts exactly the earliest-inserted key
	c.Set("key-3", 3, time.Minute)

	assert.Equal(t, capacity, c.Size(), "cache size must never exceed capacity")

	_, ok := c.Get("key-0")
	assert.False(t, ok, "the first-inserted key should have been evicted")

	for i := 1; i <= 3; i++ {
		_, ok := c.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, ok, "key-%d should still be present", i)
	}
}

func TestOverwriteKeepsArrivalOrder(t *testing.T) {
	c := New[int](2)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	// overwriting does not refresh a's eviction priority
	c.Set("a", 10, time.Minute)

	c.Set("c", 3, time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok, "a arrived first and should be evicted despite the overwrite")

	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestOverwriteReplacesValue(t *testing.T) {
	c := New[string](10)

	c.Set("a", "old", time.Minute)
	c.Set("a", "new", time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Size())
}

func TestClear(t *testing.T) {
	c := New[int](10)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()

	assert.Equal(t, 0, c.Size())

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestReinsertAfterExpiryGetsFreshPosition(t *testing.T) {
	c := New[int](2)

	c.Set("a", 1, time.Millisecond)
	c.Set("b", 2, time.Minute)

	time.Sleep(10 * time.Millisecond)

	// lazily expire a, then re-insert it
	_, ok := c.Get("a")
	require.False(t, ok)

	c.Set("a", 3, time.Minute)
	c.Set("c", 4, time.Minute)

	// b is now the oldest arrival, not the re-inserted a
	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestStats(t *testing.T) {
	c := New[int](5)

	c.Set("a", 1, time.Minute)

	size, maxSize := c.Stats()
	assert.Equal(t, 1, size)
	assert.Equal(t, 5, maxSize)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](50)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%20)
				c.Set(key, n, time.Minute)
				c.Get(key)
			}
		}(i)
	}

	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 50)
}
