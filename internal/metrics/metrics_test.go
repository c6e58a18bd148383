package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, Register(reg))
	assert.Error(t, Register(reg), "registering twice should fail")
	assert.True(t, Unregister(reg))
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/v1/users/:userId/dashboard", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	before := testutil.ToFloat64(requestCount.WithLabelValues("200", http.MethodGet, "/api/v1/users/:userId/dashboard"))

	for _, user := range []string{"u1", "u2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+user+"/dashboard", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	after := testutil.ToFloat64(requestCount.WithLabelValues("200", http.MethodGet, "/api/v1/users/:userId/dashboard"))
	assert.Equal(t, before+2, after)
}

func TestMiddleware_RecordsHTTPErrorCode(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream down")
	})

	before := testutil.ToFloat64(requestCount.WithLabelValues("502", http.MethodGet, "/boom"))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, before+1, testutil.ToFloat64(requestCount.WithLabelValues("502", http.MethodGet, "/boom")))
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	defer Unregister(reg)

	ObserveUpstream("getBudgets", "ok", 20*time.Millisecond)
	ObserveCache(true)
	ObserveReport("dashboard", time.Millisecond)

	e := echo.New()
	e.GET("/metrics", Handler(reg))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `insights_upstream_requests_total{endpoint="getBudgets",outcome="ok"}`))
	assert.True(t, strings.Contains(body, `insights_cache_lookups_total{result="hit"}`))
	assert.True(t, strings.Contains(body, "insights_report_duration_seconds"))
}
