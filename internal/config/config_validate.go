// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateScraper(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateScheduler(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateReports(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateScraper validates the results site client configuration
func (c *Config) validateScraper() error {
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("OBRA_BASE_URL is required")
	}
	if err := validateHTTPURL(c.Scraper.BaseURL, "OBRA_BASE_URL"); err != nil {
		return fmt.Errorf("OBRA_BASE_URL is invalid: %w", err)
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("SCRAPER_TIMEOUT must be positive")
	}
	if c.Scraper.RequestsPerSecond <= 0 {
		return fmt.Errorf("SCRAPER_REQUESTS_PER_SECOND must be positive")
	}
	if c.Scraper.Burst < 1 {
		return fmt.Errorf("SCRAPER_BURST must be at least 1")
	}
	if c.Scraper.RetryAttempts < 0 {
		return fmt.Errorf("SCRAPER_RETRY_ATTEMPTS must not be negative")
	}
	if c.Scraper.SnapshotMaxAgeDays < 0 {
		return fmt.Errorf("SNAPSHOT_MAX_AGE_DAYS must not be negative")
	}
	return nil
}

// validateDatabase validates the results store configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("DATABASE_BUSY_TIMEOUT must not be negative")
	}
	return nil
}

// validateScheduler validates the scheduler configuration (only if enabled)
func (c *Config) validateScheduler() error {
	if !c.Scheduler.Enabled {
		return nil // Scheduler disabled (NO_SCRAPE) - no validation needed
	}

	if c.Scheduler.FullInterval < time.Second {
		return fmt.Errorf("FULL_INTERVAL must be at least 1s")
	}
	if c.Scheduler.RecentInterval < time.Second {
		return fmt.Errorf("RECENT_INTERVAL must be at least 1s")
	}
	if c.Scheduler.RecentDays < 1 || c.Scheduler.RecentDays > 30 {
		return fmt.Errorf("RECENT_DAYS must be between 1 and 30")
	}
	if c.Scheduler.YearsBack < 0 || c.Scheduler.YearsBack > 50 {
		return fmt.Errorf("YEARS_BACK must be between 0 and 50")
	}
	return nil
}

// validCacheTypes defines the supported cache backends
var validCacheTypes = map[string]bool{
	"memory": true,
	"badger": true,
}

// validateCache validates the response cache configuration
func (c *Config) validateCache() error {
	if !validCacheTypes[c.Cache.Type] {
		return fmt.Errorf("CACHE_TYPE must be one of: memory, badger")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.Type == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required when CACHE_TYPE is badger")
	}
	return nil
}

// validateServer validates the HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("ENVIRONMENT must be development or production")
	}
	return nil
}

// validateAPI validates the response shaping configuration
func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 || c.API.MaxPageSize > 1000 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be between 1 and 1000")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE")
	}
	if c.API.RecentLimit < 1 {
		return fmt.Errorf("API_RECENT_LIMIT must be at least 1")
	}
	return nil
}

// validateSecurity validates admin auth and rate limiting configuration
func (c *Config) validateSecurity() error {
	if c.Security.AdminEnabled {
		if err := c.validateJWTSecret(); err != nil {
			return err
		}
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	return nil
}

// validateJWTSecret validates the admin token secret
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_ENABLED=true")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validReportFormats defines the supported report writers
var validReportFormats = map[string]bool{
	"null": true,
	"text": true,
	"html": true,
}

// validateReports validates the report generation configuration
func (c *Config) validateReports() error {
	if !validReportFormats[c.Reports.Format] {
		return fmt.Errorf("REPORT_FORMAT must be one of: null, text, html")
	}
	if c.Reports.Format != "null" && c.Reports.OutputDir == "" {
		return fmt.Errorf("REPORT_OUTPUT_DIR is required when REPORT_FORMAT is %s", c.Reports.Format)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value. This prevents accidental deployment
// with insecure default credentials.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"TODO",
	"FIXME",
	"XXX",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
// that indicate the user forgot to set a real value.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
