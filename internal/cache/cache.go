// Package cache holds read-optimized views of current rankings. Entries
// are fresh for a TTL window but are invalidated synchronously and
// unconditionally whenever the commit path replaces a group's set; a
// reader can only ever see stale data up until the next recompute, never
// after a completed commit.
package cache

import (
	"sync"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
)

// DefaultTTL is the freshness window for cached views.
const DefaultTTL = time.Hour

type entry struct {
	set     []ranking.FighterRanking
	expires time.Time
}

// Cache is an in-process read cache keyed by group, with cross-group
// derived views (pound-for-pound, champions) that are dropped whenever
// any constituent group changes.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	groups  map[string]entry
	derived map[string]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:     DefaultTTL,
		now:     time.Now,
		groups:  make(map[string]entry),
		derived: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached current set for the group, if fresh.
func (c *Cache) Get(g fight.Group) ([]ranking.FighterRanking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.groups[g.Key()]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.set, true
}

// Set stores the current set for the group.
func (c *Cache) Set(g fight.Group, set []ranking.FighterRanking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[g.Key()] = entry{set: set, expires: c.now().Add(c.ttl)}
}

// GetDerived returns a cached cross-group view (e.g. "p4p", "champions").
func (c *Cache) GetDerived(key string) ([]ranking.FighterRanking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.derived[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.set, true
}

// SetDerived stores a cross-group view.
func (c *Cache) SetDerived(key string, set []ranking.FighterRanking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derived[key] = entry{set: set, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the group's cached view and every derived view, since
// any derived aggregate may include the group's fighters. Called
// synchronously by the commit path.
func (c *Cache) Invalidate(g fight.Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.groups, g.Key())
	c.derived = make(map[string]entry)
}

// Flush drops everything. The remedy for any suspected cache/store
// divergence is a forced flush, not per-read reconciliation.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = make(map[string]entry)
	c.derived = make(map[string]entry)
}
