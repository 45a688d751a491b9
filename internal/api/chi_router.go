// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kverran/homeshelf/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router over the given handlers and middleware factory.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
	}
}

// SetupChi configures all routes.
//
// Two distinct surfaces hang off one listener: the plugin contract routes
// (/CollectionSections/*) whose request and response shapes belong to the
// home-screen plugin, and the service's own API (/api/v1/*, /metrics).
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Plugin results callbacks. Jellyfin posts here once per visible section
	// per home-screen load.
	r.Route("/CollectionSections", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitSectionResults())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/Collection", router.handler.CollectionResults)
		r.Post("/Playlist", router.handler.PlaylistResults)
	})

	// Health endpoints with permissive limits for monitoring tools
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())

		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Service API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/sections", router.handler.Sections)
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
