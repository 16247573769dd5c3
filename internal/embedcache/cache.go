package embedcache

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultCacheSize = 10000

// Cache maps a lowercased skill string to its embedding and the source that
// produced it. It is bounded by an LRU policy and optionally by a TTL;
// ttl <= 0 keeps entries until they are evicted for space or the cache is
// cleared.
type Cache struct {
	lru    *expirable.LRU[string, entry]
	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	source string
	vector []float32
}

type Stats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{lru: expirable.NewLRU[string, entry](size, nil, ttl)}
}

func Key(skill string) string {
	return strings.ToLower(skill)
}

// Get returns the cached embedding for skill if it was produced by source.
// An entry from any other source counts as a miss.
func (c *Cache) Get(skill, source string) ([]float32, bool) {
	v, ok := c.lru.Get(Key(skill))
	if !ok || v.source != source {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return cloneEmbedding(v.vector), true
}

func (c *Cache) Set(skill, source string, embedding []float32) {
	c.lru.Add(Key(skill), entry{source: source, vector: cloneEmbedding(embedding)})
}

func (c *Cache) Clear() {
	c.lru.Purge()
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

func (c *Cache) Stats() Stats {
	return Stats{Size: c.lru.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
