// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package api

import (
	"net/http"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

// HealthLive reports process liveness. It never touches the database so a
// wedged store cannot flap the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status": "alive",
			"uptime": time.Since(h.startTime).Round(time.Second).String(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady reports readiness: the database answers a ping and at least
// one ranking build has completed.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"ranking":  "ok",
	}
	ready := true

	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			checks["database"] = "unreachable"
			ready = false
		}
	}

	generation := h.session.Generation()
	if generation == 0 {
		checks["ranking"] = "not built yet"
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"ready":  ready,
			"checks": checks,
		},
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			Generation: generation,
		},
	})
}

// Health is the combined health summary used by dashboards.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":            "ok",
			"uptime":            time.Since(h.startTime).Round(time.Second).String(),
			"generation":        h.session.Generation(),
			"websocket_clients": clients,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
