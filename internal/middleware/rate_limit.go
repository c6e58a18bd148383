package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Rate limit scopes. Each scope has its own bucket per user.
const (
	ScopeReads   = "reads"
	ScopeRefresh = "refresh"
)

const (
	sweepInterval = 5 * time.Minute
	bucketIdleTTL = 10 * time.Minute
)

// Quota is a per-user token bucket allowance
type Quota struct {
	PerMinute int
	Burst     int
}

func (q Quota) limit() rate.Limit {
	return rate.Limit(float64(q.PerMinute) / 60)
}

type bucketKey struct {
	userID string
	scope  string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds token buckets per session user and scope.
// Idle buckets are swept in the background until Stop is called.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[bucketKey]*bucket
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter and starts its sweeper
func NewRateLimiter() *RateLimiter {
	r := &RateLimiter{
		buckets: make(map[bucketKey]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go r.sweep()
	return r
}

// take spends one token from the user's bucket for scope. It reports whether the
// request may proceed, the whole tokens left and how long until the next token.
func (r *RateLimiter) take(userID, scope string, q Quota) (bool, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	key := bucketKey{userID: userID, scope: scope}
	b, ok := r.buckets[key]
	if !ok || b.limiter.Burst() != q.Burst || b.limiter.Limit() != q.limit() {
		b = &bucket{limiter: rate.NewLimiter(q.limit(), q.Burst)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))

	var wait time.Duration
	if !allowed {
		wait = time.Duration((1 - tokens) / float64(q.limit()) * float64(time.Second))
	}
	return allowed, remaining, wait
}

// Buckets returns the number of live buckets
func (r *RateLimiter) Buckets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiter) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-bucketIdleTTL)
	for key, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, key)
			log.Debug().Str("user_id", key.userID).Str("scope", key.scope).Msg("Evicted idle rate limit bucket")
		}
	}
}

// Stop ends the background sweeper. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Limit returns an Echo middleware charging the session user's bucket for scope.
// It must run after Session; requests without a session are not limited.
func (r *RateLimiter) Limit(scope string, q Quota) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := GetSession(c)
			if !ok {
				return next(c)
			}

			allowed, remaining, wait := r.take(session.UserID, scope, q)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(q.PerMinute))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if allowed {
				return next(c)
			}

			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))

			log.Warn().
				Str("user_id", session.UserID).
				Str("scope", scope).
				Int("retry_after", retryAfter).
				Msg("Rate limit exceeded")

			return c.JSON(http.StatusTooManyRequests, problemDetails{
				Type:     errorTypeRateLimit,
				Title:    "Rate Limit Exceeded",
				Status:   http.StatusTooManyRequests,
				Detail:   fmt.Sprintf("Too many %s requests. Please retry after %d seconds.", scope, retryAfter),
				Instance: c.Request().URL.Path,
			})
		}
	}
}
