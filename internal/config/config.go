// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and config files. Provides centralized configuration management for the
// scraper, results database, recalculation scheduler, HTTP API, and reporting.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Scraper.BaseURL, cfg.Database.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access
// from multiple goroutines.
type Config struct {
	Scraper   ScraperConfig   `koanf:"scraper"`
	Database  DatabaseConfig  `koanf:"database"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Reports   ReportsConfig   `koanf:"reports"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ScraperConfig holds settings for the OBRA results site client.
//
// The scraper is deliberately conservative: it is pulling from a small
// community site, so the rate limit defaults low and every request goes
// through a circuit breaker that backs off when the site struggles.
//
// Environment Variables:
//   - OBRA_BASE_URL: Results site base URL (default: https://obra.org)
//   - SCRAPER_TIMEOUT: Per-request timeout (default: 30s)
//   - SCRAPER_REQUESTS_PER_SECOND: Rate limit (default: 2)
//   - SCRAPER_RETRY_ATTEMPTS: Retries per failed request (default: 3)
//   - SNAPSHOT_MAX_AGE_DAYS: Re-scrape member snapshots older than this
//     when the request date is recent (default: 30)
type ScraperConfig struct {
	BaseURL            string        `koanf:"base_url"`
	Timeout            time.Duration `koanf:"timeout"`
	UserAgent          string        `koanf:"user_agent"`
	RequestsPerSecond  float64       `koanf:"requests_per_second"`
	Burst              int           `koanf:"burst"`
	RetryAttempts      int           `koanf:"retry_attempts"`
	RetryDelay         time.Duration `koanf:"retry_delay"`
	SnapshotMaxAgeDays int           `koanf:"snapshot_max_age_days"`
}

// DatabaseConfig holds SQLite results store settings.
//
// The store is a single file; WAL journaling and the busy timeout let the
// API serve reads while a recalculation pass holds a write transaction.
//
// Environment Variables:
//   - DATABASE_PATH: SQLite file path (default: $HOME/.obra.sqlite3)
//   - DATABASE_BUSY_TIMEOUT: Lock wait before SQLITE_BUSY (default: 10s)
type DatabaseConfig struct {
	Path        string        `koanf:"path"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// SchedulerConfig holds settings for the periodic scrape-and-recalculate passes.
//
// Two passes run on independent tickers. The full pass walks entire years
// (all configured years on first run, the current year after), the recent
// pass re-scrapes only the last few days of updates. Both trigger point
// recalculation for disciplines whose results changed.
//
// Environment Variables:
//   - SCRAPE_ENABLED: Master toggle (default: true)
//   - NO_SCRAPE: Legacy kill switch - any non-empty value disables the scheduler
//   - FULL_INTERVAL: Full pass interval (default: 10m)
//   - RECENT_INTERVAL: Recent pass interval (default: 30m)
//   - RECENT_DAYS: Days of updates the recent pass covers (default: 3)
//   - YEARS_BACK: Years before the current one the first full pass covers (default: 6)
type SchedulerConfig struct {
	Enabled        bool          `koanf:"enabled"`
	FullInterval   time.Duration `koanf:"full_interval"`
	RecentInterval time.Duration `koanf:"recent_interval"`
	RecentDays     int           `koanf:"recent_days"`
	YearsBack      int           `koanf:"years_back"`
}

// CacheConfig holds API response cache settings.
//
// Two backends are supported: "memory" (in-process TTL map, default) and
// "badger" (persistent, survives restarts). Entries expire after TTL and
// the whole cache is cleared whenever a recalculation pass changes results.
//
// Environment Variables:
//   - CACHE_TYPE: Backend - memory or badger (default: memory)
//   - CACHE_TTL: Entry lifetime (default: 15m)
//   - CACHE_PATH: Badger data directory (default: /data/cache)
type CacheConfig struct {
	Type string        `koanf:"type"`
	TTL  time.Duration `koanf:"ttl"`
	Path string        `koanf:"path"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the host:port address the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds response shaping settings.
//
// Environment Variables:
//   - API_DEFAULT_PAGE_SIZE: Default page size for list endpoints (default: 20)
//   - API_MAX_PAGE_SIZE: Upper bound for client-requested page sizes (default: 100)
//   - API_RECENT_LIMIT: Events returned by /events/recent (default: 6)
//   - API_SWAGGER_ENABLED: Serve the Swagger UI at /swagger (default: true)
type APIConfig struct {
	DefaultPageSize int  `koanf:"default_page_size"`
	MaxPageSize     int  `koanf:"max_page_size"`
	RecentLimit     int  `koanf:"recent_limit"`
	SwaggerEnabled  bool `koanf:"swagger_enabled"`
}

// SecurityConfig holds admin authentication, rate limiting, and CORS settings.
//
// The public read endpoints are unauthenticated. Admin endpoints (manual
// recalculation, cache flush) require a bearer token signed with JWTSecret
// and are only mounted when AdminEnabled is true.
//
// Environment Variables:
//   - ADMIN_ENABLED: Mount admin endpoints (default: false)
//   - JWT_SECRET: HMAC secret for admin bearer tokens (required when admin enabled)
//   - TOKEN_TTL: Admin token lifetime (default: 24h)
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn off rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - TRUSTED_PROXIES: Comma-separated proxy CIDRs for client IP resolution
type SecurityConfig struct {
	AdminEnabled      bool          `koanf:"admin_enabled"`
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// ReportsConfig holds upgrade report generation settings.
//
// Reports list riders who need upgrades and recent category changes.
// The "null" format disables generation entirely.
//
// Environment Variables:
//   - REPORT_FORMAT: null, text, or html (default: null)
//   - REPORT_OUTPUT_DIR: Directory report files are written to
type ReportsConfig struct {
	Format    string `koanf:"format"`
	OutputDir string `koanf:"output_dir"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig holds Prometheus endpoint settings.
//
// Environment Variables:
//   - METRICS_ENABLED: Expose /metrics (default: true)
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}
