package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RemoteIP returns the host part of the connection's RemoteAddr.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ForwardedIP returns the first X-Forwarded-For hop, falling back to
// RemoteIP. Clients can set the header freely, so only use it behind a
// proxy that overwrites it.
func ForwardedIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if i := strings.IndexByte(xff, ','); i >= 0 {
		xff = xff[:i]
	}
	if ip := strings.TrimSpace(xff); ip != "" {
		return ip
	}
	return RemoteIP(r)
}

// ClientIP returns the key function for a deployment: ForwardedIP when a
// trusted proxy sits in front, RemoteIP otherwise.
func ClientIP(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return ForwardedIP
	}
	return RemoteIP
}

type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiter allows limit requests per key in each period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(rl.period)}
		return true
	}
	w.count++
	return w.count <= rl.limit
}

// RetryAfter reports how long until key's current window resets, or zero
// when key has no open window.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}
	if d := w.resetAt.Sub(rl.now()); d > 0 {
		return d
	}
	return 0
}

// Cleanup drops windows that have already reset.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}

// Run calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-ctx.Done():
			return
		}
	}
}

// RateLimit returns middleware that rejects requests over the limiter's
// budget for the key derived from the request with 429. Retry-After is the
// time left in the key's window, rounded up to whole seconds.
func RateLimit(limiter *RateLimiter, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if !limiter.Allow(key) {
				secs := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
