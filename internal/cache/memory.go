package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local Cache. Expired entries are dropped lazily
// on Get.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{items: map[string]entry{}, defaultTTL: defaultTTL, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value; a zero ttl falls back to the default, and a zero default
// means no expiry.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = e
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryCache) Close() error { return nil }
