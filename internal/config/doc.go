// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package config provides layered configuration management using Koanf v2.
//
// Configuration is loaded from three sources with clear precedence:
//
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any setting (highest priority)
//
// # Quick Start
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.Open(cfg.Database)
//
// # Configuration Sections
//
//   - Scraper: OBRA results site client (base URL, rate limit, retries)
//   - Database: SQLite results store (path, busy timeout)
//   - Scheduler: Periodic scrape-and-recalculate passes
//   - Cache: API response cache (memory or badger)
//   - Server: HTTP server (port, host, timeout)
//   - API: Response shaping (page sizes, recent-events limit)
//   - Security: Admin endpoints, rate limiting, CORS
//   - Reports: Upgrade report generation (null, text, html)
//   - Logging: Log level and output format
//   - Metrics: Prometheus endpoint toggle
//
// # Environment Variables
//
// Every setting maps to a flat environment variable, for example:
//
//	OBRA_BASE_URL=https://obra.org
//	DATABASE_PATH=/data/obra.sqlite3
//	CACHE_TYPE=badger
//	HTTP_PORT=8080
//	LOG_LEVEL=debug
//
// Two legacy variables receive special handling for compatibility with
// earlier deployments:
//
//	NO_SCRAPE=1    disables the scheduler entirely (any non-empty value)
//	CONFIG_PATH    overrides the config file search path
//
// # YAML Config File
//
//	scraper:
//	  base_url: https://obra.org
//	  requests_per_second: 2
//	scheduler:
//	  full_interval: 10m
//	  recent_interval: 30m
//	cache:
//	  type: memory
//	  ttl: 15m
//
// # Validation
//
// Load() validates the merged configuration and fails fast on
// malformed values (invalid URLs, out-of-range ports, unknown cache
// backends). Config is immutable after Load() and safe for concurrent
// reads.
package config
