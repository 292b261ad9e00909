// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/undervaluedfilms/filmrank/internal/auth"
	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
)

// filmSubmitRequest is the body of a catalog submission.
type filmSubmitRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	ReleaseYear int    `json:"release_year" validate:"film_year"`
	Description string `json:"description" validate:"max=4000"`
	WatchLink   string `json:"watch_link" validate:"omitempty,url"`
}

// filmLookupRequest identifies a film by its natural key.
type filmLookupRequest struct {
	Title string `json:"title" validate:"required,max=300"`
	Year  int    `json:"year" validate:"film_year"`
}

// ListFilms serves the raw catalog in insertion order, unranked.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	films, err := h.catalog.ListFilms(r.Context())
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"films": films,
			"count": len(films),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// FilmDetails looks a film up by title and year. When the request carries a
// viewer identity the viewer's own rating is attached to the film.
func (h *Handler) FilmDetails(w http.ResponseWriter, r *http.Request) {
	req := filmLookupRequest{
		Title: r.URL.Query().Get("title"),
		Year:  getIntParam(r, "year", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	film, err := h.catalog.GetFilm(r.Context(), req.Title, req.Year)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	if viewerID := auth.ViewerID(r.Context()); viewerID != "" {
		rated, rating, err := h.signals.HasRated(r.Context(), viewerID, film.ID)
		if err != nil {
			respondDomainError(w, err, "DATABASE_ERROR")
			return
		}
		if rated {
			film.UserRating = rating
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   film,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// CheckFilm reports whether a title and year is already on the list.
// Used by the submission form to pre-check before posting.
func (h *Handler) CheckFilm(w http.ResponseWriter, r *http.Request) {
	req := filmLookupRequest{
		Title: r.URL.Query().Get("title"),
		Year:  getIntParam(r, "year", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	listed, err := h.catalog.CheckFilm(r.Context(), req.Title, req.Year)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"listed": listed,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// SubmitFilm adds a new film to the catalog, attributed to the submitting
// viewer. Duplicate (title, year) pairs are rejected with FILM_EXISTS.
func (h *Handler) SubmitFilm(w http.ResponseWriter, r *http.Request) {
	var req filmSubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	film, err := h.catalog.AddFilm(r.Context(), models.Film{
		Title:       req.Title,
		ReleaseYear: req.ReleaseYear,
		Description: req.Description,
		WatchLink:   req.WatchLink,
		SubmittedBy: auth.ViewerID(r.Context()),
	})
	if err != nil {
		respondDomainError(w, err, "MUTATION_FAILURE")
		return
	}

	h.catalogChanged(r, film.ID, "added")

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data:   film,
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			Generation: h.session.Generation(),
		},
	})
}

// RejectFilm removes a submission from the catalog along with its recorded
// signals.
func (h *Handler) RejectFilm(w http.ResponseWriter, r *http.Request) {
	var req filmLookupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	film, err := h.catalog.GetFilm(r.Context(), req.Title, req.Year)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}
	if err := h.catalog.RejectFilm(r.Context(), req.Title, req.Year); err != nil {
		respondDomainError(w, err, "MUTATION_FAILURE")
		return
	}

	h.catalogChanged(r, film.ID, "removed")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"film_id": film.ID,
		},
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			Generation: h.session.Generation(),
		},
	})
}

// FilmSignals serves the four community-signal counters and the computed
// score for one film.
func (h *Handler) FilmSignals(w http.ResponseWriter, r *http.Request) {
	filmID := chi.URLParam(r, "id")
	if filmID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Film ID required", nil)
		return
	}

	agg, err := h.signals.GetAggregate(r.Context(), filmID)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"aggregate": agg,
			"score":     ranking.Score(agg),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// catalogChanged flushes cached aggregates, rebuilds the ranking, and
// notifies WebSocket clients after a catalog membership change. Rebuild
// failures are logged, not surfaced; the catalog write already succeeded.
func (h *Handler) catalogChanged(r *http.Request, filmID, change string) {
	if h.cache != nil {
		h.cache.Clear()
	}

	_, generation, err := h.session.Refresh(r.Context())
	if err != nil && !isStale(err) {
		logging.Error().Err(err).Str("film_id", filmID).Msg("Ranking rebuild after catalog change failed")
	}

	if h.wsHub != nil {
		h.wsHub.CatalogUpdated(filmID, change)
		if err == nil {
			h.wsHub.RankingRefreshed(generation)
		}
	}
}
