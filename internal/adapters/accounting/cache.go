package accounting

import (
	"context"
	"sync"
	"time"
)

// COACache caches the provider's chart of accounts for a bounded TTL.
// The cache is owned by whoever constructs the client and injected into
// it, so its lifetime is explicit and tests can run in isolation.
type COACache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	fetchedAt time.Time
	accounts  []Account
}

// NewCOACache creates a cache with the given TTL.
func NewCOACache(ttl time.Duration) *COACache {
	return &COACache{ttl: ttl, now: time.Now}
}

// Get returns the cached accounts, calling fetch when the cache is
// empty or expired. A fetch failure leaves any stale entry untouched.
func (c *COACache) Get(ctx context.Context, fetch func(ctx context.Context) ([]Account, error)) ([]Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.accounts, nil
	}

	accounts, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.accounts = accounts
	c.fetchedAt = c.now()
	return accounts, nil
}

// Invalidate clears the cache, forcing the next Get to fetch. Called
// when the provider connection is torn down.
func (c *COACache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
	c.accounts = nil
}
