// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package api

import (
	"net/http"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/auth"
	"github.com/undervaluedfilms/filmrank/internal/models"
)

// mentionRequest is the body of a mention answer submission.
type mentionRequest struct {
	FilmID         string `json:"film_id" validate:"required"`
	HadHeardBefore bool   `json:"had_heard_before"`
}

// ratingRequest is the body of a rating submission. The rating range is
// checked by the mutation coordinator so an out-of-range value reports
// INVALID_RATING rather than a generic validation failure.
type ratingRequest struct {
	FilmID string `json:"film_id" validate:"required"`
	Rating int    `json:"rating"`
}

// watchClickRequest is the body of a watch-link click report.
type watchClickRequest struct {
	FilmID string `json:"film_id" validate:"required"`
}

// SubmitMention records the viewer's one-time answer to "had you heard of
// this film before?". Answers are write-once; a second submission for the
// same film reports ALREADY_ANSWERED and leaves the original untouched.
func (h *Handler) SubmitMention(w http.ResponseWriter, r *http.Request) {
	var req mentionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	viewerID := auth.ViewerID(r.Context())
	if err := h.coordinator.RecordMention(r.Context(), viewerID, req.FilmID, req.HadHeardBefore); err != nil {
		respondDomainError(w, err, "MUTATION_FAILURE")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"film_id":          req.FilmID,
			"had_heard_before": req.HadHeardBefore,
		},
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			Generation: h.session.Generation(),
		},
	})
}

// MentionCheck reports whether the viewer has already answered the mention
// question for a film, so the client can hide the prompt.
func (h *Handler) MentionCheck(w http.ResponseWriter, r *http.Request) {
	filmID := r.URL.Query().Get("film_id")
	if filmID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "film_id is required", nil)
		return
	}

	answered, err := h.signals.HasMentioned(r.Context(), auth.ViewerID(r.Context()), filmID)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"film_id":  filmID,
			"answered": answered,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// SubmitRating records or overwrites the viewer's 1-10 rating for a film.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	viewerID := auth.ViewerID(r.Context())
	if err := h.coordinator.RecordRating(r.Context(), viewerID, req.FilmID, req.Rating); err != nil {
		respondDomainError(w, err, "MUTATION_FAILURE")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"film_id": req.FilmID,
			"rating":  req.Rating,
		},
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			Generation: h.session.Generation(),
		},
	})
}

// RatingCheck reports whether the viewer has rated a film, and the stored
// value when they have. Ratings are editable so the client pre-fills the
// form with the previous value.
func (h *Handler) RatingCheck(w http.ResponseWriter, r *http.Request) {
	filmID := r.URL.Query().Get("film_id")
	if filmID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "film_id is required", nil)
		return
	}

	rated, rating, err := h.signals.HasRated(r.Context(), auth.ViewerID(r.Context()), filmID)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	data := map[string]interface{}{
		"film_id": filmID,
		"rated":   rated,
	}
	if rated {
		data["rating"] = rating
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// WatchClick logs an attributed click-through on a film's watch link.
// Clicks never trigger a ranking rebuild; they feed engagement reporting
// only.
func (h *Handler) WatchClick(w http.ResponseWriter, r *http.Request) {
	var req watchClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	viewerID := auth.ViewerID(r.Context())
	if err := h.coordinator.RecordWatchClick(r.Context(), viewerID, req.FilmID); err != nil {
		respondDomainError(w, err, "MUTATION_FAILURE")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"film_id": req.FilmID,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
