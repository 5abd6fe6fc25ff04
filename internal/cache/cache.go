// Package cache provides the injectable TTL cache used by the analysis
// orchestrator. The core engines stay cache-free; callers decide what
// to memoize.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is the injectable get/put/expire contract.
type Cache interface {
	Get(key string) (any, bool)
	Put(key string, value any)
	Expire(key string)
}

// Loader fetches a fresh value when the cache misses.
type Loader func() (any, error)

// TTL is an in-process cache with per-entry expiry and deduplicated
// loads: at most one in-flight fetch per key.
type TTL struct {
	mu    sync.RWMutex
	data  map[string]entry
	ttl   time.Duration
	group singleflight.Group
}

type entry struct {
	value     any
	timestamp time.Time
}

// New creates a TTL cache and starts its cleanup loop.
func New(ttl time.Duration) *TTL {
	c := &TTL{
		data: make(map[string]entry),
		ttl:  ttl,
	}
	go c.cleanupLoop()
	return c
}

var _ Cache = (*TTL)(nil)

func (c *TTL) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.data[key]
	if !exists || time.Since(e.timestamp) > c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *TTL) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: value, timestamp: time.Now()}
}

func (c *TTL) Expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// GetOrLoad returns the cached value or loads it, guaranteeing a single
// in-flight load per key even under concurrent misses.
func (c *TTL) GetOrLoad(key string, load Loader) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent loader may have filled the entry while this
		// call waited its turn.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})
	return v, err
}

// Len reports the number of stored entries, expired or not.
func (c *TTL) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *TTL) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *TTL) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.data {
		if now.Sub(e.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}
