package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/config"
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/handler"
	"github.com/dafibh/fortuna/insights-api/internal/metrics"
	"github.com/dafibh/fortuna/insights-api/internal/middleware"
	"github.com/dafibh/fortuna/insights-api/internal/repository/postgres"
	"github.com/dafibh/fortuna/insights-api/internal/service"
	"github.com/dafibh/fortuna/insights-api/internal/upstream"
	"github.com/dafibh/fortuna/insights-api/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	loc := cfg.Location()

	// Upstream client is always needed: websocket tokens are verified against it
	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, upstream.WithLocation(loc))

	// Select data source
	var source domain.DataSource
	var cache *upstream.CachedSource
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		// Verify database connection
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		log.Info().Msg("Connected to database")
		source = postgres.NewSource(pool, loc)
	default:
		source = client
		log.Info().Str("upstream", cfg.UpstreamURL).Msg("Using expense backend API")
	}

	if cfg.CacheTTL > 0 {
		cache = upstream.NewCachedSource(source, cfg.CacheTTL, cfg.CacheSize)
		defer cache.Stop()
		source = cache
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize engine and services
	engine := analytics.NewEngine(analytics.Options{
		Calendar: analytics.Calendar{Location: loc},
	})
	var invalidator domain.CacheInvalidator
	if cache != nil {
		invalidator = cache
	}
	insightsService := service.NewInsightsService(source, engine, invalidator, hub)

	// Initialize handlers
	dashboardHandler := handler.NewDashboardHandler(insightsService)
	analyticsHandler := handler.NewAnalyticsHandler(insightsService)
	budgetHandler := handler.NewBudgetHandler(insightsService)
	wsHandler := handler.NewWebSocketHandler(hub, client, cfg.CORSOrigins, cfg.WSTokenRecheck)

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	readQuota := middleware.Quota{PerMinute: cfg.RateLimit.RequestsPerMinute, Burst: cfg.RateLimit.Burst}
	refreshQuota := middleware.Quota{PerMinute: cfg.RateLimit.RefreshPerMinute, Burst: cfg.RateLimit.RefreshBurst}

	// Metrics
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.CurrencyHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Request metrics
	e.Use(metrics.Middleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":     "ok",
			"dataSource": cfg.DataSource,
			"wsClients":  hub.TotalClientCount(),
		})
	})

	// Prometheus metrics endpoint
	e.GET("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	// Register API routes
	handler.RegisterRoutes(e,
		[]echo.MiddlewareFunc{
			middleware.Session(cfg.DefaultCurrency),
			rateLimiter.Limit(middleware.ScopeReads, readQuota),
		},
		[]echo.MiddlewareFunc{
			rateLimiter.Limit(middleware.ScopeRefresh, refreshQuota),
		},
		dashboardHandler, analyticsHandler, budgetHandler, wsHandler,
	)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("data_source", cfg.DataSource).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Warn()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("user_id", middleware.GetUserID(c)).
				Msg("request")

			return nil
		}
	}
}
