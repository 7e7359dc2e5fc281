package news

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCacheTTL is the freshness window of the aggregate cache.
const DefaultCacheTTL = 60 * time.Second

// PayloadSource fetches the raw aggregate payload.
type PayloadSource interface {
	FetchPayload(ctx context.Context) (Payload, error)
}

type cacheEntry struct {
	payload   Payload
	fetchedAt time.Time
}

// Cache is a single-slot, time-bounded cache in front of a PayloadSource. A
// failed refresh falls back to the previous payload however old it is.
//
// Concurrent misses are not coalesced: each may fetch and the last write wins.
// The mutex only protects the slot itself.
type Cache struct {
	source PayloadSource
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	entry *cacheEntry
}

// NewCache creates a cache with the given freshness window. A non-positive
// ttl uses DefaultCacheTTL.
func NewCache(source PayloadSource, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Articles returns the normalized articles for a category, refreshing the
// payload when the cached one is missing or expired.
func (c *Cache) Articles(ctx context.Context, category string) FetchResult {
	now := c.now()

	entry := c.load()
	if entry != nil && now.Sub(entry.fetchedAt) < c.ttl {
		return okResult(entry.payload.Articles(category, now))
	}

	payload, err := c.source.FetchPayload(ctx)
	if err != nil {
		if entry := c.load(); entry != nil {
			slog.Warn("Aggregate refresh failed, serving stale payload",
				"age", now.Sub(entry.fetchedAt).String(), "error", err)
			return staleResult(entry.payload.Articles(category, now), err)
		}
		slog.Error("Aggregate fetch failed with empty cache", "error", err)
		return failedResult(err)
	}

	c.store(&cacheEntry{payload: payload, fetchedAt: now})
	return okResult(payload.Articles(category, now))
}

// FetchedAt returns when the cached payload was fetched, and false when the
// cache is empty.
func (c *Cache) FetchedAt() (time.Time, bool) {
	entry := c.load()
	if entry == nil {
		return time.Time{}, false
	}
	return entry.fetchedAt, true
}

func (c *Cache) load() *cacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry
}

func (c *Cache) store(entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = entry
}
