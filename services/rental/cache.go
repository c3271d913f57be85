package rental

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"arcadehub/models"
)

// resultCache memoizes availability lookups per (device, date) for a short
// TTL. It is owned by the checker that created it, takes its clock by
// injection, and evicts the oldest entry once full.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type cacheEntry struct {
	key       string
	result    models.AvailabilityResult
	expiresAt time.Time
}

func newResultCache(ttl time.Duration, maxSize int, now func() time.Time) *resultCache {
	if now == nil {
		now = time.Now
	}
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &resultCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     now,
	}
}

func cacheKey(deviceID, date string, start, end int) string {
	return fmt.Sprintf("%s:%s:%d:%d", deviceID, date, start, end)
}

func (c *resultCache) get(key string) (models.AvailabilityResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return models.AvailabilityResult{}, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return models.AvailabilityResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) set(key string, result models.AvailabilityResult) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
	for len(c.entries) >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	el := c.order.PushFront(&cacheEntry{
		key:       key,
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = el
}

// invalidate drops every cached range for one (device, date). Called on any
// reservation mutation so freed slots become visible immediately.
func (c *resultCache) invalidate(deviceID, date string) {
	prefix := deviceID + ":" + date + ":"
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.order.Front(); el != nil; {
		next := el.Next()
		entry := el.Value.(*cacheEntry)
		if len(entry.key) > len(prefix) && entry.key[:len(prefix)] == prefix {
			c.order.Remove(el)
			delete(c.entries, entry.key)
		}
		el = next
	}
}
