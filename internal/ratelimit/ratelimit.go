// Package ratelimit provides a keyed rate limiter using the token bucket
// algorithm. The server uses it to throttle login attempts per client
// address, since the shared login secret invites brute forcing.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// entry pairs a limiter with its last access time so idle keys can be evicted.
type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent token bucket.
type KeyedRateLimiter struct {
	mu      sync.RWMutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// idleEviction is how long a key may sit unused before its bucket is dropped.
const idleEviction = 10 * time.Minute

// New creates a new keyed rate limiter.
// rps: requests per second allowed per key.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go krl.evictLoop()

	return krl
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or the context
// is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	// Fast path: read lock
	krl.mu.RLock()
	e, exists := krl.entries[key]
	krl.mu.RUnlock()

	if exists {
		krl.mu.Lock()
		e.lastAccess = time.Now()
		krl.mu.Unlock()
		return e.limiter
	}

	// Slow path: write lock to create
	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Double-check after acquiring write lock
	if e, exists = krl.entries[key]; exists {
		e.lastAccess = time.Now()
		return e.limiter
	}

	e = &entry{
		limiter:    rate.NewLimiter(krl.limit, krl.burst),
		lastAccess: time.Now(),
	}
	krl.entries[key] = e
	return e.limiter
}

// Stop shuts down the eviction goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// evictLoop periodically drops buckets that have been idle long enough to
// have fully refilled anyway.
func (krl *KeyedRateLimiter) evictLoop() {
	ticker := time.NewTicker(idleEviction / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-idleEviction)
			krl.mu.Lock()
			for key, e := range krl.entries {
				if e.lastAccess.Before(cutoff) {
					delete(krl.entries, key)
				}
			}
			krl.mu.Unlock()

		case <-krl.done:
			return
		}
	}
}
