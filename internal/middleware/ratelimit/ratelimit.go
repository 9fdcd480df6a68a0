// Package ratelimit provides a simple per-IP request limiter.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		CleanupInterval:   5 * time.Minute,
	}
}

// bucket is one client's request count within its current minute window.
type bucket struct {
	lastSeen time.Time
	count    int
}

// Limiter tracks request counts per client IP over a one-minute window.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewLimiter creates a new rate limiter.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	l := &Limiter{
		buckets:    make(map[string]*bucket),
		limit:      config.RequestsPerMinute,
		sweepEvery: config.CleanupInterval,
		stop:       make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Allow checks if a request from the given IP should be allowed. A gap of
// more than a minute since the client's last request opens a fresh window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b := l.buckets[clientIP]
	if b == nil || now.Sub(b.lastSeen) > time.Minute {
		l.buckets[clientIP] = &bucket{lastSeen: now, count: 1}
		return true
	}

	b.count++
	b.lastSeen = now
	return b.count <= l.limit
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops clients idle for more than ten minutes.
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, ip)
		}
	}
}

// Stop shuts down the sweep goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

// Middleware wraps a handler with rate limiting.
func (l *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
