// Package ratelimit provides per-client rate limiting for the dashboard
// endpoints. Every dashboard request triggers a full recomputation over the
// event store, so a misbehaving client can generate real database load.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter tracks a token bucket per client key (IP).
// Suitable for single-instance deployments; the dashboard is admin-facing
// and low-traffic, so no distributed state is needed.
type Limiter struct {
	rate  rate.Limit
	burst int

	mu         sync.Mutex
	buckets    map[string]*bucket
	lastSweep  time.Time
	sweepEvery time.Duration
	maxAge     time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing rps requests per second with the given
// burst per client key.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		rate:       rate.Limit(rps),
		burst:      burst,
		buckets:    make(map[string]*bucket),
		lastSweep:  time.Now(),
		sweepEvery: 5 * time.Minute,
		maxAge:     10 * time.Minute,
	}
}

// Allow reports whether a request from key is within its budget.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	// Sweep stale buckets inline; no background goroutine to manage.
	if now.Sub(l.lastSweep) > l.sweepEvery {
		cutoff := now.Add(-l.maxAge)
		for k, old := range l.buckets {
			if old.lastSeen.Before(cutoff) {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	l.mu.Unlock()

	return b.limiter.Allow()
}
