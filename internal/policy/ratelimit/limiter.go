// Package ratelimit implements per-client token buckets for the public endpoints.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBurst = 1
	defaultTTL   = 10 * time.Minute
)

// Config holds rate limiter configuration.
type Config struct {
	// RPS is the sustained rate per key. Zero or less disables limiting.
	RPS   float64
	Burst int
	// TTL evicts buckets that have been idle this long.
	TTL time.Duration
}

type entry struct {
	lim  *rate.Limiter
	last time.Time
}

// Limiter manages one bucket per key (usually the client IP).
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	r := rate.Limit(cfg.RPS)
	if cfg.RPS <= 0 {
		r = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Limiter{
		buckets: make(map[string]*entry),
		limit:   r,
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow consumes a token for key and reports whether the call may proceed.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.buckets[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = e
	}
	e.last = now
	return e.lim.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than the TTL and returns how many were removed.
func (l *Limiter) Sweep() int {
	cut := l.now().Add(-l.ttl)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, e := range l.buckets {
		if e.last.Before(cut) {
			delete(l.buckets, k)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets every TTL/2 until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len reports the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
