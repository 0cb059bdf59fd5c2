package render

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/paulmach/orb/maptile"
)

// TileCache keeps encoded raster tiles for a fixed time after download.
// Reads refresh recency but not the expiry, so tiles that stay on screen
// are still refetched once their TTL runs out.
type TileCache struct {
	lru    *expirable.LRU[maptile.Tile, []byte] // nil when disabled
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache counters.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewTileCache holds up to maxEntries tiles for ttl each; a zero ttl never
// expires. A non-positive maxEntries disables caching.
func NewTileCache(maxEntries int, ttl time.Duration) *TileCache {
	c := &TileCache{}
	if maxEntries > 0 {
		c.lru = expirable.NewLRU[maptile.Tile, []byte](maxEntries, nil, ttl)
	}
	return c
}

// Get returns the tile bytes, or nil on a miss or an expired entry.
func (c *TileCache) Get(t maptile.Tile) []byte {
	if c.lru != nil {
		if data, ok := c.lru.Get(t); ok {
			c.hits.Add(1)
			return data
		}
	}
	c.misses.Add(1)
	return nil
}

// Put stores freshly downloaded tile bytes, restarting their TTL.
func (c *TileCache) Put(t maptile.Tile, data []byte) {
	if c.lru == nil {
		return
	}
	c.lru.Add(t, data)
}

// Stats returns the current counters.
func (c *TileCache) Stats() CacheStats {
	n := 0
	if c.lru != nil {
		n = c.lru.Len()
	}
	return CacheStats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}
