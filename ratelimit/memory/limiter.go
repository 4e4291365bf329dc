// Package memorylimiter is an in-memory sliding-window rate limiter. It is
// the single-node fallback used when Redis is not configured.
package memorylimiter

import (
	"fmt"
	"sync"
	"time"
)

// Limit defines window and max count for a route bucket.
type Limit struct {
	Limit  int
	Window time.Duration
}

type bucketState struct {
	// timestamps holds request times in Unix ms, newest last.
	timestamps []int64
}

// Limiter tracks per-client request counts over a sliding window.
type Limiter struct {
	mu      sync.Mutex
	limits  map[string]Limit
	buckets map[string]*bucketState
}

// New constructs a limiter with the provided per-bucket limits. A "default"
// entry applies to buckets without their own limit.
func New(limits map[string]Limit) *Limiter {
	if limits == nil {
		limits = map[string]Limit{}
	}
	return &Limiter{
		limits:  limits,
		buckets: make(map[string]*bucketState),
	}
}

func (l *Limiter) get(bucket string) Limit {
	if v, ok := l.limits[bucket]; ok {
		return v
	}
	if v, ok := l.limits["default"]; ok {
		return v
	}
	return Limit{Limit: 100, Window: time.Minute}
}

// AllowNamed reports whether the client identified by key may make another
// request in the bucket. Expired entries are pruned on each call and empty
// buckets dropped so memory stays bounded.
func (l *Limiter) AllowNamed(bucket, key string) (bool, error) {
	if l == nil {
		return true, nil
	}
	if bucket == "" || key == "" {
		return false, fmt.Errorf("bucket and key required")
	}

	lim := l.get(bucket)
	nowMs := time.Now().UnixNano() / 1e6
	windowStart := nowMs - lim.Window.Milliseconds()
	limitKey := key + ":" + bucket

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[limitKey]
	if !ok {
		b = &bucketState{}
		l.buckets[limitKey] = b
	}

	ts := b.timestamps
	pruneIdx := 0
	for pruneIdx < len(ts) && ts[pruneIdx] < windowStart {
		pruneIdx++
	}
	if pruneIdx > 0 {
		ts = ts[pruneIdx:]
	}

	if len(ts) >= lim.Limit {
		// Deny without recording this attempt.
		b.timestamps = ts
		if len(ts) == 0 {
			delete(l.buckets, limitKey)
		}
		return false, nil
	}

	ts = append(ts, nowMs)
	b.timestamps = ts
	return true, nil
}
