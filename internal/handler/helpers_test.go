package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/middleware"
	"github.com/dafibh/fortuna/insights-api/internal/service"
	"github.com/dafibh/fortuna/insights-api/internal/testutil"
	"github.com/labstack/echo/v4"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type testServer struct {
	e         *echo.Echo
	source    *testutil.MockDataSource
	publisher *testutil.MockPublisher
}

// newTestServer wires the real service and routes over an in-memory data source seeded for alice
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithRefresh(t, nil)
}

// newTestServerWithRefresh wires extra middleware onto POST /refresh only
func newTestServerWithRefresh(t *testing.T, refreshMiddleware []echo.MiddlewareFunc) *testServer {
	t.Helper()
	ds := testutil.NewMockDataSource()
	testutil.SeedUser(ds, "alice")
	pub := testutil.NewMockPublisher()

	svc := service.NewInsightsService(ds, analytics.NewEngine(analytics.Options{}), ds, pub)
	svc.SetClock(func() time.Time { return fixedNow })

	e := echo.New()
	RegisterRoutes(e,
		[]echo.MiddlewareFunc{middleware.Session("INR")},
		refreshMiddleware,
		NewDashboardHandler(svc),
		NewAnalyticsHandler(svc),
		NewBudgetHandler(svc),
		nil,
	)
	return &testServer{e: e, source: ds, publisher: pub}
}

func (s *testServer) do(method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(target string) *httptest.ResponseRecorder {
	return s.do(http.MethodGet, target, nil)
}
