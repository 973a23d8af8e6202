// Package cache is an in-process cache for rendered list responses. A nil
// *Cache is valid and caches nothing.
package cache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

type Cache struct {
	c   *ristretto.Cache[string, []byte]
	ttl time.Duration

	mu  sync.Mutex
	gen uint64
}

// New creates a cache holding at most maxCostBytes of values.
func New(maxCostBytes int64, ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl}, nil
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.c.Get(key)
}

// Generation is taken before reading the data that will be cached and
// handed back to Set.
func (c *Cache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set stores value and waits until it is visible to Get. The value is
// dropped when a Purge happened since gen was taken.
func (c *Cache) Set(gen uint64, key string, value []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.c.SetWithTTL(key, value, int64(len(value)), c.ttl)
	c.c.Wait()
}

// Purge drops every entry. Called after writes to cached resources.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.c.Clear()
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.c.Close()
}
