// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so the homegrown middleware works
// with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires the handlers into a Chi route tree.
type Router struct {
	handler        *Handler
	chiMiddleware  *ChiMiddleware
	metricsEnabled bool
	swaggerEnabled bool
}

// NewRouter builds the router from the handler and configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	var cm *ChiMiddleware
	metricsEnabled := true
	swaggerEnabled := true
	if cfg != nil {
		cm = NewChiMiddlewareFromSecurity(cfg.Security)
		metricsEnabled = cfg.Metrics.Enabled
		swaggerEnabled = cfg.API.SwaggerEnabled
	} else {
		cm = NewChiMiddleware(nil)
	}

	return &Router{
		handler:        handler,
		chiMiddleware:  cm,
		metricsEnabled: metricsEnabled,
		swaggerEnabled: swaggerEnabled,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())      // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)        // Real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints. Permissive limit so monitoring can poll freely.
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Read API. Everything here is public and served from the response
	// cache when warm.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/events/recent", router.handler.EventsRecent)
		r.Get("/events/years", router.handler.EventYears)
		r.Get("/events/years/{year}", router.handler.YearEvents)
		r.Get("/people", router.handler.PeopleSearch)
		r.Get("/results/person/{id}", router.handler.PersonResults)
		r.Get("/results/event/{id}", router.handler.EventResults)
		r.Get("/disciplines", router.handler.Disciplines)
		r.Get("/upgrades/pending", router.handler.UpgradesPending)

		// Report rendering walks the full points history, so it gets a
		// tighter limit than the cached JSON reads.
		r.With(router.chiMiddleware.RateLimitReports()).
			Get("/upgrades/report", router.handler.UpgradesReport)

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).
			Get("/ws", router.handler.WebSocket)
	})

	// Admin API. Bearer-token checked in the handlers; strict limits
	// because each call can trigger a full derivation pass.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAdmin())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/recalculate/{discipline}", router.handler.AdminRecalculate)
		r.Post("/cache/flush", router.handler.AdminCacheFlush)
	})

	// Observability.
	if router.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if router.swaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("list"),
			httpSwagger.DomID("swagger-ui"),
		))
	}

	return r
}
