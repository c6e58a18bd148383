package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter on a manual clock
func newTestLimiter(t *testing.T) (*RateLimiter, *time.Time) {
	t.Helper()
	clock := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.now = func() time.Time { return clock }
	t.Cleanup(rl.Stop)
	return rl, &clock
}

func serveLimited(rl *RateLimiter, scope string, q Quota, userID string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/dashboard", nil)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), SessionKey, domain.Session{UserID: userID, Token: "t"}))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "OK") }
	_ = rl.Limit(scope, q)(ok)(c)
	return rec
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl, _ := newTestLimiter(t)
	q := Quota{PerMinute: 6, Burst: 2}

	for i := 0; i < 2; i++ {
		rec := serveLimited(rl, ScopeReads, q, "alice")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "6", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := serveLimited(rl, ScopeReads, q, "alice")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	// one token every 10s at 6 per minute
	assert.Equal(t, "10", rec.Header().Get("Retry-After"))

	var body problemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errorTypeRateLimit, body.Type)
	assert.Equal(t, http.StatusTooManyRequests, body.Status)
	assert.Contains(t, body.Detail, "reads")
}

func TestRateLimiter_RemainingHeader(t *testing.T) {
	rl, _ := newTestLimiter(t)
	q := Quota{PerMinute: 60, Burst: 3}

	assert.Equal(t, "2", serveLimited(rl, ScopeReads, q, "alice").Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", serveLimited(rl, ScopeReads, q, "alice").Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "0", serveLimited(rl, ScopeReads, q, "alice").Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, clock := newTestLimiter(t)
	q := Quota{PerMinute: 60, Burst: 1}

	assert.Equal(t, http.StatusOK, serveLimited(rl, ScopeReads, q, "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveLimited(rl, ScopeReads, q, "alice").Code)

	*clock = clock.Add(time.Second)
	assert.Equal(t, http.StatusOK, serveLimited(rl, ScopeReads, q, "alice").Code)
}

func TestRateLimiter_UsersAndScopesAreSeparate(t *testing.T) {
	rl, _ := newTestLimiter(t)
	reads := Quota{PerMinute: 120, Burst: 5}
	refresh := Quota{PerMinute: 6, Burst: 1}

	assert.Equal(t, http.StatusOK, serveLimited(rl, ScopeRefresh, refresh, "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveLimited(rl, ScopeRefresh, refresh, "alice").Code)

	// a spent refresh bucket leaves reads and other users alone
	assert.Equal(t, http.StatusOK, serveLimited(rl, ScopeReads, reads, "alice").Code)
	assert.Equal(t, http.StatusOK, serveLimited(rl, ScopeRefresh, refresh, "bob").Code)
	assert.Equal(t, 3, rl.Buckets())
}

func TestRateLimiter_SkipsWithoutSession(t *testing.T) {
	rl, _ := newTestLimiter(t)
	q := Quota{PerMinute: 1, Burst: 1}

	for i := 0; i < 5; i++ {
		rec := serveLimited(rl, ScopeReads, q, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 0, rl.Buckets())
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl, clock := newTestLimiter(t)
	q := Quota{PerMinute: 60, Burst: 1}

	serveLimited(rl, ScopeReads, q, "alice")
	*clock = clock.Add(bucketIdleTTL / 2)
	serveLimited(rl, ScopeReads, q, "bob")
	require.Equal(t, 2, rl.Buckets())

	*clock = clock.Add(bucketIdleTTL/2 + time.Second)
	rl.evictIdle()

	assert.Equal(t, 1, rl.Buckets())
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter()
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}
