package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Data sources
const (
	DataSourceAPI      = "api"
	DataSourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    zerolog.Level

	// Data source
	DataSource      string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration
	CacheSize       int

	// Database (DATA_SOURCE=postgres)
	DatabaseURL string

	// Presentation
	DefaultCurrency string
	Timezone        string

	// Rate limiting
	RateLimit RateLimitConfig

	// WebSocket token re-verification interval, 0 disables
	WSTokenRecheck time.Duration
}

// RateLimitConfig holds per-user rate limiting settings.
// Refresh has its own tighter bucket since it bypasses the cache.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	RefreshPerMinute  int
	RefreshBurst      int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	upstreamTimeout, err := getDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheSize, err := getInt("CACHE_SIZE", 1024)
	if err != nil {
		return nil, err
	}
	perMinute, err := getInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}
	burst, err := getInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	refreshPerMinute, err := getInt("RATE_LIMIT_REFRESH_PER_MINUTE", 6)
	if err != nil {
		return nil, err
	}
	refreshBurst, err := getInt("RATE_LIMIT_REFRESH_BURST", 2)
	if err != nil {
		return nil, err
	}
	wsRecheck, err := getDuration("WS_TOKEN_RECHECK", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:             getEnv("ENV", "development"),
		LogLevel:        level,
		DataSource:      strings.ToLower(getEnv("DATA_SOURCE", DataSourceAPI)),
		UpstreamURL:     strings.TrimRight(getEnv("UPSTREAM_URL", "http://localhost:8000"), "/"),
		UpstreamTimeout: upstreamTimeout,
		CacheTTL:        cacheTTL,
		CacheSize:       cacheSize,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),
		Timezone:        getEnv("TIMEZONE", "UTC"),
		RateLimit: RateLimitConfig{
			RequestsPerMinute: perMinute,
			Burst:             burst,
			RefreshPerMinute:  refreshPerMinute,
			RefreshBurst:      refreshBurst,
		},
		WSTokenRecheck: wsRecheck,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the calendar zone used for month bucketing
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourceAPI:
		if c.UpstreamURL == "" {
			return fmt.Errorf("UPSTREAM_URL is required when DATA_SOURCE=api")
		}
	case DataSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourceAPI, DataSourcePostgres, c.DataSource)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	if c.RateLimit.RefreshPerMinute <= 0 || c.RateLimit.RefreshBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_REFRESH_PER_MINUTE and RATE_LIMIT_REFRESH_BURST must be positive")
	}
	if c.WSTokenRecheck < 0 {
		return fmt.Errorf("WS_TOKEN_RECHECK must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
