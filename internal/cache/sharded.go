package cache

import (
	"github.com/cespare/xxhash/v2"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultShardCount is used when NewShardedCache is given a non-positive count.
const DefaultShardCount = 64

// ShardedCache spreads keys over independent go-cache stores picked by
// xxhash, so lookups of different titles rarely contend on one lock.
// Shards never expire items and run no janitor.
type ShardedCache struct {
	shards []*gocache.Cache
	mask   uint64
}

// NewShardedCache creates a cache with shardCount rounded up to a power of two.
func NewShardedCache(shardCount int) *ShardedCache {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	n := 1
	for n < shardCount {
		n <<= 1
	}

	c := &ShardedCache{
		shards: make([]*gocache.Cache, n),
		mask:   uint64(n - 1),
	}
	for i := range c.shards {
		c.shards[i] = gocache.New(gocache.NoExpiration, 0)
	}
	return c
}

func (c *ShardedCache) shard(key string) *gocache.Cache {
	return c.shards[xxhash.Sum64String(key)&c.mask]
}

func (c *ShardedCache) Get(key string) (string, bool) {
	value, found := c.shard(key).Get(key)
	if !found {
		return "", false
	}
	doc, ok := value.(string)
	return doc, ok
}

// Put relies on go-cache's Add, which refuses to replace a live item.
func (c *ShardedCache) Put(key string, value string) {
	_ = c.shard(key).Add(key, value, gocache.NoExpiration)
}

func (c *ShardedCache) ShardCount() int {
	return len(c.shards)
}

// Size returns the number of entries across all shards.
func (c *ShardedCache) Size() int {
	total := 0
	for _, s := range c.shards {
		total += s.ItemCount()
	}
	return total
}
