// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/models"
)

// loginRequest is the body of a login attempt. Members share one club
// password and identify themselves by name.
type loginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a club member and returns a session token.
//
// The club runs on a single shared password; the username only establishes
// the viewer identity mentions and ratings are recorded under. The viewer
// ID is derived deterministically from the lowercased username so the same
// name always maps to the same identity.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if h.config.Security.AccessPassword == "" {
		respondError(w, http.StatusForbidden, "AUTHENTICATION_ERROR", "Login is disabled", nil)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.config.Security.AccessPassword)) != 1 {
		logging.Warn().Str("username", sanitizeLogValue(req.Username)).Msg("Login rejected: bad password")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid credentials", nil)
		return
	}

	viewerID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(req.Username))).String()
	token, err := h.jwtManager.GenerateToken(viewerID, req.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "AUTHENTICATION_ERROR", "Failed to issue token", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"token":      token,
			"user_id":    viewerID,
			"username":   req.Username,
			"expires_at": time.Now().Add(h.config.Security.SessionTimeout).Format(time.RFC3339),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
