package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileCache_BasicGetPut(t *testing.T) {
	cache := NewTileCache(100, time.Hour)

	data, _ := cache.Get("basemap", 10, 512, 256)
	assert.Nil(t, data)

	cache.Put("basemap", 10, 512, 256, []byte("tile-bytes"), "image/png")
	data, ct := cache.Get("basemap", 10, 512, 256)
	assert.Equal(t, []byte("tile-bytes"), data)
	assert.Equal(t, "image/png", ct)

	// Different coordinate is still a miss.
	data, _ = cache.Get("basemap", 10, 512, 257)
	assert.Nil(t, data)
}

func TestTileCache_LayersAreDistinct(t *testing.T) {
	cache := NewTileCache(100, time.Hour)

	cache.Put("basemap", 1, 0, 0, []byte("osm"), "image/png")
	data, _ := cache.Get("satellite", 1, 0, 0)
	assert.Nil(t, data)
}

func TestTileCache_TTLExpiration(t *testing.T) {
	cache := NewTileCache(100, 50*time.Millisecond)

	cache.Put("basemap", 1, 0, 0, []byte("tile"), "image/png")
	data, _ := cache.Get("basemap", 1, 0, 0)
	assert.NotNil(t, data)

	time.Sleep(60 * time.Millisecond)
	data, _ = cache.Get("basemap", 1, 0, 0)
	assert.Nil(t, data)
}

func TestTileCache_LRUEviction(t *testing.T) {
	cache := NewTileCache(3, time.Hour)

	cache.Put("a", 0, 0, 0, []byte("1"), "image/png")
	cache.Put("b", 0, 0, 0, []byte("2"), "image/png")
	cache.Put("c", 0, 0, 0, []byte("3"), "image/png")

	// Access "a" so "b" becomes the oldest; adding a fourth evicts "b".
	cache.Get("a", 0, 0, 0)
	cache.Put("d", 0, 0, 0, []byte("4"), "image/png")

	data, _ := cache.Get("a", 0, 0, 0)
	assert.NotNil(t, data)
	data, _ = cache.Get("b", 0, 0, 0)
	assert.Nil(t, data)
	data, _ = cache.Get("d", 0, 0, 0)
	assert.NotNil(t, data)
}

func TestTileCache_Stats(t *testing.T) {
	cache := NewTileCache(100, time.Hour)

	cache.Put("a", 0, 0, 0, []byte("1"), "image/png")
	cache.Get("a", 0, 0, 0) // hit
	cache.Get("b", 0, 0, 0) // miss

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	require.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestTileCache_ConcurrentAccess(t *testing.T) {
	cache := NewTileCache(1000, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cache.Put("basemap", n, 0, 0, []byte("data"), "image/png")
			cache.Get("basemap", n, 0, 0)
		}(i)
	}
	wg.Wait()

	stats := cache.Stats()
	assert.LessOrEqual(t, stats.Entries, 1000)
	assert.Positive(t, stats.Hits+stats.Misses)
}

func TestTileCache_UpdateExistingKey(t *testing.T) {
	cache := NewTileCache(100, time.Hour)

	cache.Put("a", 0, 0, 0, []byte("old"), "image/png")
	cache.Put("a", 0, 0, 0, []byte("new"), "image/jpeg")

	data, ct := cache.Get("a", 0, 0, 0)
	assert.Equal(t, []byte("new"), data)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, 1, cache.Stats().Entries)
}
