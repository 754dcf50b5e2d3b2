// Package ratelimit provides a per-key token bucket limiter used to throttle
// login attempts by client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter gives each key its own independent limiter.
// Keys idle for longer than idleTTL are evicted by a background sweep.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps requests per second with the given burst.
func New(rps float64, burst int, idleTTL time.Duration) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		done:     make(chan struct{}),
	}

	if idleTTL > 0 {
		go krl.cleanup()
	}

	return krl
}

// Allow reports whether a request for key may proceed now. It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	krl.mu.Unlock()

	return e.limiter.Allow()
}

// Len returns the number of tracked keys
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(krl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case now := <-ticker.C:
			krl.evictIdle(now)
		}
	}
}

func (krl *KeyedRateLimiter) evictIdle(now time.Time) {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	for key, e := range krl.limiters {
		if now.Sub(e.lastSeen) > krl.idleTTL {
			delete(krl.limiters, key)
		}
	}
}
