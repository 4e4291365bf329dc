// Package memorystore provides in-memory storage adapters. They are
// single-node fallbacks for when Redis is not configured.
package memorystore

import (
	"context"
	"sync"
	"time"
)

// KeySetCache is an in-memory auth.KeySetCache holding one JWKS document
// with a TTL.
type KeySetCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	raw     []byte
	fetched time.Time
}

// NewKeySetCache creates an in-memory key set cache. If ttl <= 0, a default
// of 10 minutes is used.
func NewKeySetCache(ttl time.Duration) *KeySetCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &KeySetCache{ttl: ttl}
}

func (c *KeySetCache) Get(ctx context.Context) ([]byte, bool, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.raw == nil || time.Since(c.fetched) >= c.ttl {
		return nil, false, nil
	}
	return c.raw, true, nil
}

func (c *KeySetCache) Put(ctx context.Context, raw []byte) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = raw
	c.fetched = time.Now()
	return nil
}
