// Package redisstore provides Redis-backed storage adapters.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeySetCache shares the issuer's JWKS document across replicas through
// Redis, so a fleet refreshes from the issuer at most once per TTL.
type KeySetCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewKeySetCache creates a Redis key set cache. If key is empty,
// "auth:jwks" is used. If ttl <= 0, a default of 10 minutes is used.
func NewKeySetCache(rdb *redis.Client, key string, ttl time.Duration) *KeySetCache {
	if key == "" {
		key = "auth:jwks"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &KeySetCache{rdb: rdb, key: key, ttl: ttl}
}

func (c *KeySetCache) Get(ctx context.Context) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *KeySetCache) Put(ctx context.Context, raw []byte) error {
	return c.rdb.Set(ctx, c.key, raw, c.ttl).Err()
}
