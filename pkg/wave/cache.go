package wave

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of rendered frames kept in memory. A
// single client needs at most PatternLen entries; the LRU keeps a crowd of
// clients with odd terminal geometries from growing the cache without bound.
const DefaultCacheSize = 200

type frameKey struct {
	rows, cols, offset int
}

// Cache memoizes Render output, shared by every session in the process.
// Two sessions racing on the same missing key may both render it, which is
// harmless since Render is deterministic.
type Cache struct {
	frames *lru.Cache[frameKey, string]

	hits   uint64
	misses uint64
}

// NewCache returns a Cache bounded to capacity entries.
func NewCache(capacity int) (*Cache, error) {
	frames, err := lru.New[frameKey, string](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{frames: frames}, nil
}

// Frame returns the rendered frame for (rows, cols, offset), rendering and
// storing it on first use. The offset wraps modulo PatternLen before the
// lookup, so a frame is shared across pattern cycles.
func (c *Cache) Frame(rows, cols, offset int) string {
	key := frameKey{
		rows:   rows,
		cols:   cols,
		offset: ((offset % PatternLen) + PatternLen) % PatternLen,
	}
	if text, ok := c.frames.Get(key); ok {
		atomic.AddUint64(&c.hits, 1)
		return text
	}
	atomic.AddUint64(&c.misses, 1)
	text := Render(rows, cols, key.offset)
	c.frames.ContainsOrAdd(key, text)
	return text
}

// Len reports how many frames are currently cached.
func (c *Cache) Len() int { return c.frames.Len() }

// Stats reports lookup hits and misses since creation.
func (c *Cache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}
