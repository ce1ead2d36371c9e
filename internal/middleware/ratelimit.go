// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/safehaven/internal/core"
)

const (
	keyPrefix     = "ratelimit:ip:"
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// verdict is one admission decision, from Redis or the local buckets.
type verdict struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAfter time.Duration
}

type RateLimiter struct {
	store  *redis_rate.Limiter
	local  *localBuckets
	config RateLimitConfig
}

// NewRateLimiter enforces cfg.Limit through Redis. With FailOpen set a
// Redis outage degrades to per-process token buckets; without it the
// request is refused with 503.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		store:  redis_rate.NewLimiter(rdb),
		local:  &localBuckets{entries: make(map[string]*bucket)},
		config: cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		v, err := rl.check(r.Context(), rl.config.KeyFunc(r))
		if err != nil {
			slog.Error("rate limiter unavailable", "error", err)
			core.JSON(w, http.StatusServiceUnavailable, core.ErrorResponse{
				Error: "rate limiter unavailable",
			})
			return
		}

		writeLimitHeaders(w.Header(), rl.config.Limit, v)

		if !v.allowed {
			retryAfter := max(int(v.retryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
				Error: fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) check(ctx context.Context, key string) (verdict, error) {
	res, err := rl.store.Allow(ctx, key, rl.config.Limit)
	if err == nil {
		return verdict{
			allowed:    res.Allowed > 0,
			remaining:  res.Remaining,
			retryAfter: res.RetryAfter,
			resetAfter: res.ResetAfter,
		}, nil
	}

	if !rl.config.FailOpen {
		return verdict{}, fmt.Errorf("rate limit store: %w", err)
	}

	slog.Warn("rate limit store unavailable, using local buckets",
		"error", err,
		"key", key,
	)
	return rl.local.take(key, rl.config.Limit, time.Now()), nil
}

func writeLimitHeaders(h http.Header, limit redis_rate.Limit, v verdict) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(v.resetAfter).Unix(), 10))
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localBuckets mirrors the Redis limit inside one process. Idle buckets
// are swept on access instead of by a background goroutine.
type localBuckets struct {
	mu        sync.Mutex
	entries   map[string]*bucket
	lastSweep time.Time
}

func (l *localBuckets) take(key string, limit redis_rate.Limit, now time.Time) verdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > sweepInterval {
		for k, b := range l.entries {
			if now.Sub(b.lastSeen) > bucketTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	interval := limit.Period / time.Duration(max(limit.Rate, 1))

	b, ok := l.entries[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		l.entries[key] = b
	}
	b.lastSeen = now

	v := verdict{
		allowed:    b.limiter.AllowN(now, 1),
		resetAfter: interval,
	}
	v.remaining = max(int(b.limiter.TokensAt(now)), 0)
	if !v.allowed {
		v.retryAfter = interval
	}

	return v
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func KeyByIP(r *http.Request) string {
	return keyPrefix + clientIP(r)
}

// KeyByIPAndEndpoint gives each route its own bucket per client, so a
// burst of logins does not eat the budget for chat.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeShape(r.URL.Path)
}

// routeShape folds numeric path segments so /havens/1 and /havens/2
// share a bucket.
func routeShape(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: time.Minute,
	}
}
