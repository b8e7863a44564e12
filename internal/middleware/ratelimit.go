package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"portfolio-backend/internal/transport"
)

const sweepThreshold = 10000

// RateLimiter is a fixed-window limiter keyed by client IP and route.
type RateLimiter struct {
	limit   int
	window  time.Duration
	perPath bool
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count int
	reset time.Time
}

// NewRateLimiter counts per client IP; when perPath is set the request path is
// part of the key.
func NewRateLimiter(limit int, window time.Duration, perPath bool) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		perPath: perPath,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.buckets) > sweepThreshold {
		for k, b := range rl.buckets {
			if now.After(b.reset) {
				delete(rl.buckets, k)
			}
		}
	}

	b, ok := rl.buckets[key]
	if !ok || now.After(b.reset) {
		rl.buckets[key] = &bucket{count: 1, reset: now.Add(rl.window)}
		return true
	}

	if b.count >= rl.limit {
		return false
	}

	b.count++
	return true
}

// clientIP expects chi's RealIP middleware to have normalised RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if rl.perPath {
			key += ":" + r.URL.Path
		}
		if !rl.Allow(key) {
			transport.WriteError(w, http.StatusTooManyRequests, "too many requests, please try again later", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
