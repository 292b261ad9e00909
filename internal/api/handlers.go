// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package api provides the HTTP surface over the ranking core: the ranked
// catalog read path, catalog submissions, signal mutations, and the
// WebSocket refresh feed.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/undervaluedfilms/filmrank/internal/auth"
	"github.com/undervaluedfilms/filmrank/internal/config"
	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/mutation"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
	"github.com/undervaluedfilms/filmrank/internal/stores"
	ws "github.com/undervaluedfilms/filmrank/internal/websocket"
)

// Pinger reports backing store liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheClearer drops all cached signal aggregates. Catalog membership
// changes invalidate every cached entry at once, unlike per-film signal
// mutations which invalidate a single key.
type CacheClearer interface {
	Clear()
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade, health
//   - handlers_helpers.go: shared response and validation helpers
//   - handlers_ranking.go: ranked catalog reads and refresh
//   - handlers_films.go: catalog reads, submissions, rejection
//   - handlers_signals.go: mention/rating/watch-click mutations and checks
//   - handlers_auth.go: shared-password login
type Handler struct {
	catalog     stores.CatalogStore
	signals     stores.SignalStore
	session     *ranking.Session
	filters     *ranking.Engine
	coordinator *mutation.Coordinator
	jwtManager  *auth.JWTManager
	wsHub       *ws.Hub
	config      *config.Config
	pinger      Pinger
	cache       CacheClearer
	startTime   time.Time
}

// NewHandler creates a new API handler with all required dependencies.
// The wsHub, pinger, and cache dependencies are optional; nil disables the
// WebSocket endpoint, the readiness database check, and the full cache
// flush on catalog changes respectively.
func NewHandler(
	catalog stores.CatalogStore,
	signals stores.SignalStore,
	session *ranking.Session,
	filters *ranking.Engine,
	coordinator *mutation.Coordinator,
	jwtManager *auth.JWTManager,
	wsHub *ws.Hub,
	cfg *config.Config,
	pinger Pinger,
	cache CacheClearer,
) *Handler {
	return &Handler{
		catalog:     catalog,
		signals:     signals,
		session:     session,
		filters:     filters,
		coordinator: coordinator,
		jwtManager:  jwtManager,
		wsHub:       wsHub,
		config:      cfg,
		pinger:      pinger,
		cache:       cache,
		startTime:   time.Now(),
	}
}

// WebSocket upgrades the connection and registers the client with the hub.
// Clients receive ranking.refreshed and catalog.updated broadcasts.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Legitimate browser WebSockets always include Origin; allowing an
	// empty Origin would bypass CORS entirely.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Nil config allows any origin (tests, development).
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
