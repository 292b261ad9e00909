// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/undervaluedfilms/filmrank/internal/auth"
	"github.com/undervaluedfilms/filmrank/internal/middleware"
)

// Router wires handlers, authentication, and the middleware stack into one
// http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	jwtManager    *auth.JWTManager
}

// NewRouter creates a router over the given handler. mw may be nil, in
// which case the default middleware configuration is used.
func NewRouter(handler *Handler, mw *ChiMiddleware, jwtManager *auth.JWTManager) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		jwtManager:    jwtManager,
	}
}

// Setup configures all HTTP routes.
//
// Route groups:
//   - /api/v1/health: liveness and readiness, permissive rate limit
//   - /api/v1/auth: login, strict rate limit
//   - /api/v1 reads: anonymous access with optional viewer identity;
//     viewer-dependent filters fail inside the handler when anonymous
//   - /api/v1 writes and viewer checks: authenticated viewers only
//   - /metrics: Prometheus scrape endpoint
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Post("/login", router.handler.Login)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		// Read endpoints. Anonymous viewers see the unfiltered ranking;
		// a bearer token attaches the viewer identity for personal
		// filters and rating annotations.
		r.Group(func(r chi.Router) {
			r.Use(router.jwtManager.OptionalAuth)

			r.Get("/ranking", router.handler.Ranking)
			r.Get("/films", router.handler.ListFilms)
			r.Get("/films/details", router.handler.FilmDetails)
			r.Get("/films/check", router.handler.CheckFilm)
			r.Get("/films/{id}/signals", router.handler.FilmSignals)
			r.Get("/ws", router.handler.WebSocket)
		})

		// Mutations and viewer-scoped checks require authentication.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Use(router.jwtManager.RequireAuth)

			r.Post("/ranking/refresh", router.handler.RankingRefresh)
			r.Post("/films", router.handler.SubmitFilm)
			r.Post("/films/reject", router.handler.RejectFilm)
			r.Post("/mentions", router.handler.SubmitMention)
			r.Get("/mentions/check", router.handler.MentionCheck)
			r.Post("/ratings", router.handler.SubmitRating)
			r.Get("/ratings/check", router.handler.RatingCheck)
			r.Post("/watch/click", router.handler.WatchClick)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
