// ABOUTME: Per-client request limits for the planning API
// ABOUTME: Fixed-window counters keyed by client IP with periodic cleanup

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

type window struct {
	count int
	ends  time.Time
}

// RateLimiter admits at most limit requests per key in each fixed window.
type RateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu        sync.Mutex
	windows   map[string]window
	nextSweep time.Time
}

// NewRateLimiter allows limit requests per key every period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]window),
	}
}

// Allow counts a request for key. When the key is over its limit it returns
// false and how long until its window ends.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if !now.Before(rl.nextSweep) {
		rl.sweep(now)
		rl.nextSweep = now.Add(rl.period)
	}

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.ends) {
		rl.windows[key] = window{count: 1, ends: now.Add(rl.period)}
		return true, 0
	}
	if w.count >= rl.limit {
		return false, w.ends.Sub(now)
	}
	w.count++
	rl.windows[key] = w
	return true, 0
}

// Len reports the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// sweep drops finished windows. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.ends) {
			delete(rl.windows, k)
		}
	}
}

// ClientIP returns a key function for RateLimit. Requests are keyed by their
// peer address. X-Forwarded-For is read only when the peer is a trusted proxy,
// and then the key is the rightmost hop that is not itself a trusted proxy.
func ClientIP(trusted []netip.Prefix) func(*http.Request) string {
	return func(r *http.Request) string {
		host := r.RemoteAddr
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		peer, err := netip.ParseAddr(host)
		if err != nil {
			return "ip:" + host
		}

		client := peer.Unmap()
		if !isTrusted(trusted, client) {
			return "ip:" + client.String()
		}

		hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			client = addr.Unmap()
			if !isTrusted(trusted, client) {
				break
			}
		}
		return "ip:" + client.String()
	}
}

func isTrusted(trusted []netip.Prefix, addr netip.Addr) bool {
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

type rateLimitResponse struct {
	models.ErrorResponse
	RetryAfter int `json:"retry_after"`
}

// RateLimit rejects requests over the limiter's quota with 429 and a
// Retry-After header. A nil limiter or key function disables it, and
// requests with an empty key pass through.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil || keyFunc == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, wait := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			seconds := max(1, int(math.Ceil(wait.Seconds())))
			slog.Warn("Rate limit exceeded", "key", key, "path", sanitizePath(r.URL.Path), "retry_after", seconds)

			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeJSON(w, http.StatusTooManyRequests, rateLimitResponse{
				ErrorResponse: models.ErrorResponse{Error: "Rate limit exceeded", Code: http.StatusTooManyRequests},
				RetryAfter:    seconds,
			})
		}
	}
}
