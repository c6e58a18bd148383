package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var collectors = []prometheus.Collector{
	requestCount,
	requestDuration,
	upstreamCount,
	upstreamDuration,
	cacheLookups,
	reportDuration,
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "insights_requests_total",
		Help: "How many HTTP requests processed, partitioned by status code, method and route.",
	},
	[]string{"code", "method", "route"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "insights_request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "route"},
)

var upstreamCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "insights_upstream_requests_total",
		Help: "Requests made to the expense backend, partitioned by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

var upstreamDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "insights_upstream_request_duration_seconds",
		Help: "Latency of requests to the expense backend in seconds.",
	},
	[]string{"endpoint"},
)

var cacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "insights_cache_lookups_total",
		Help: "Data source cache lookups, partitioned by result (hit or miss).",
	},
	[]string{"result"},
)

var reportDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "insights_report_duration_seconds",
		Help:    "Time spent computing a report from a resolved snapshot.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	},
	[]string{"report"},
)

// Register registers all collectors with reg
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}
	return nil
}

// Unregister removes all collectors from reg.
//
// This is needed to cleanly exit and in tests that build more than one server.
func Unregister(reg prometheus.Registerer) bool {
	ok := true
	for _, c := range collectors {
		if !reg.Unregister(c) {
			ok = false
		}
	}
	return ok
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// Middleware updates the request metrics.
// The route template is used as label to keep cardinality low.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			code := strconv.Itoa(status)
			requestDuration.WithLabelValues(code, c.Request().Method, route).Observe(time.Since(start).Seconds())
			requestCount.WithLabelValues(code, c.Request().Method, route).Inc()

			return err
		}
	}
}

// ObserveUpstream records one request to the expense backend
func ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	upstreamCount.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveCache records a cache hit or miss
func ObserveCache(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveReport records how long computing a report took
func ObserveReport(report string, elapsed time.Duration) {
	reportDuration.WithLabelValues(report).Observe(elapsed.Seconds())
}
