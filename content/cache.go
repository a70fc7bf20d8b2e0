package content

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache is an in-memory copy of a collection with a TTL. Reads serve the
// cached slice; writes through a Manager call Refresh.
type Cache[T Entity] struct {
	mu      sync.RWMutex
	items   []T
	fetched time.Time
	ttl     time.Duration
	repo    *Repository[T]
	log     *zap.Logger
	now     func() time.Time
}

// NewCache creates a Cache over repo.
func NewCache[T Entity](repo *Repository[T], ttl time.Duration) *Cache[T] {
	return &Cache[T]{repo: repo, ttl: ttl, log: repo.log, now: time.Now}
}

// Repository returns the underlying repository.
func (c *Cache[T]) Repository() *Repository[T] { return c.repo }

func (c *Cache[T]) valid() bool {
	return c.items != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// load must be called with the write lock held. On failure stale items are
// kept and the error is only logged.
func (c *Cache[T]) load(ctx context.Context) {
	items, err := c.repo.Fetch(ctx)
	if err != nil {
		c.log.Warn("refresh failed", zap.Error(err))
		if c.items == nil {
			c.items = []T{}
		}
		return
	}
	c.items = items
	c.fetched = c.now()
}

// List returns the cached collection, reloading it when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *Cache[T]) List(ctx context.Context) []T {
	c.mu.RLock()
	if c.valid() {
		items := c.items
		c.mu.RUnlock()
		return items
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		c.load(ctx)
	}
	return c.items
}

// Refresh reloads the collection unconditionally.
func (c *Cache[T]) Refresh(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(ctx)
	return c.items
}

// Get looks id up in the cached collection and falls back to the store.
func (c *Cache[T]) Get(ctx context.Context, id string) (T, error) {
	for _, v := range c.List(ctx) {
		if v.Key() == id {
			return v, nil
		}
	}
	return c.repo.Get(ctx, id)
}
