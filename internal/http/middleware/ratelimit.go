package middleware

import (
	"net/http"
	"sync"
	"time"
)

const (
	sweepInterval = 5 * time.Minute
	sweepIdleFor  = 10 * time.Minute
)

// RateLimiter throttles callers per client IP with a token-bucket refill.
// It shields the booking and voice endpoints from a single chatty client
// exhausting pickup-slot capacity checks.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	refill  float64 // tokens per second
	burst   int
}

type clientBucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows refill requests per second with the given burst per
// client IP. Idle clients are swept in the background.
func NewRateLimiter(refill float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		refill:  refill,
		burst:   burst,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether a request from ip may proceed, consuming one token
// when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[ip]
	if !ok {
		c = &clientBucket{tokens: float64(rl.burst), seen: now}
		rl.clients[ip] = c
	}

	c.tokens += now.Sub(c.seen).Seconds() * rl.refill
	if c.tokens > float64(rl.burst) {
		c.tokens = float64(rl.burst)
	}
	c.seen = now

	if c.tokens < 1 {
		return false
	}
	c.tokens--
	return true
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-sweepIdleFor)
		rl.mu.Lock()
		for ip, c := range rl.clients {
			if c.seen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects requests over the configured rate with 429 Too Many
// Requests. The client key is X-Real-Ip when chi's RealIP middleware has set
// it, falling back to the connection's remote address.
func RateLimit(refill float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(refill, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !limiter.Allow(ip) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
