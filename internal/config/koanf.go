// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/velorank/config.yaml",
	"/etc/velorank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// NoScrapeEnvVar is the legacy kill switch carried over from earlier deployments.
// Any non-empty value disables the scheduler regardless of other settings.
const NoScrapeEnvVar = "NO_SCRAPE"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			BaseURL:            "https://obra.org",
			Timeout:            30 * time.Second,
			UserAgent:          "velorank/2.1 (+https://github.com/tomtom215/velorank)",
			RequestsPerSecond:  2.0, // Polite default - the results site is a small community server
			Burst:              1,
			RetryAttempts:      3,
			RetryDelay:         2 * time.Second,
			SnapshotMaxAgeDays: 30,
		},
		Database: DatabaseConfig{
			Path:        defaultDatabasePath(),
			BusyTimeout: 10 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			FullInterval:   10 * time.Minute,
			RecentInterval: 30 * time.Minute,
			RecentDays:     3,
			YearsBack:      6, // First full pass covers current year plus six prior seasons
		},
		Cache: CacheConfig{
			Type: "memory",
			TTL:  15 * time.Minute,
			Path: "/data/cache",
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RecentLimit:     6,
			SwaggerEnabled:  true,
		},
		Security: SecurityConfig{
			AdminEnabled:      false,
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Reports: ReportsConfig{
			Format:    "null", // Report generation is opt-in
			OutputDir: "/data/reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// defaultDatabasePath returns the default SQLite file path, $HOME/.obra.sqlite3.
// Falls back to the working directory when the home directory is unavailable.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".obra.sqlite3"
	}
	return filepath.Join(home, ".obra.sqlite3")
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
//   - Backward compatibility with legacy environment variables (NO_SCRAPE)
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// OBRA_BASE_URL -> scraper.base_url
	// CACHE_TYPE -> cache.type
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Legacy NO_SCRAPE kill switch overrides whatever the layers produced
	if os.Getenv(NoScrapeEnvVar) != "" {
		if err := k.Set("scheduler.enabled", false); err != nil {
			return nil, fmt.Errorf("failed to apply NO_SCRAPE: %w", err)
		}
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - OBRA_BASE_URL -> scraper.base_url
//   - DATABASE_PATH -> database.path
//   - CACHE_TYPE -> cache.type
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	// Map flat environment variable names to config sections
	envMappings := map[string]string{
		// Scraper mappings
		"obra_base_url":               "scraper.base_url",
		"scraper_timeout":             "scraper.timeout",
		"scraper_user_agent":          "scraper.user_agent",
		"scraper_requests_per_second": "scraper.requests_per_second",
		"scraper_burst":               "scraper.burst",
		"scraper_retry_attempts":      "scraper.retry_attempts",
		"scraper_retry_delay":         "scraper.retry_delay",
		"snapshot_max_age_days":       "scraper.snapshot_max_age_days",

		// Database mappings
		"database_path":         "database.path",
		"database_busy_timeout": "database.busy_timeout",

		// Scheduler mappings
		"scrape_enabled":  "scheduler.enabled",
		"full_interval":   "scheduler.full_interval",
		"recent_interval": "scheduler.recent_interval",
		"recent_days":     "scheduler.recent_days",
		"years_back":      "scheduler.years_back",

		// Cache mappings
		"cache_type": "cache.type",
		"cache_ttl":  "cache.ttl",
		"cache_path": "cache.path",

		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"api_recent_limit":      "api.recent_limit",
		"api_swagger_enabled":   "api.swagger_enabled",

		// Security mappings
		"admin_enabled":       "security.admin_enabled",
		"jwt_secret":          "security.jwt_secret",
		"token_ttl":           "security.token_ttl",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Reports mappings
		"report_format":     "reports.format",
		"report_output_dir": "reports.output_dir",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Metrics mappings
		"metrics_enabled": "metrics.enabled",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
//
// Example usage:
//
//	var cfgMu sync.RWMutex
//	var cfg *Config
//
//	err := WatchConfigFile(configPath, func() {
//	    cfgMu.Lock()
//	    defer cfgMu.Unlock()
//	    newCfg, err := config.Load()
//	    if err != nil {
//	        log.Printf("Config reload failed: %v", err)
//	        return
//	    }
//	    cfg = newCfg
//	})
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	// Start watching the file for changes
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
