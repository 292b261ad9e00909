// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/auth"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
)

// rankingRequest carries the validated query parameters of a ranking read.
type rankingRequest struct {
	Filter string `validate:"view_filter"`
}

// rankingResponse is the data payload of a ranked catalog read.
type rankingResponse struct {
	Films []models.RankedFilm `json:"films"`
	Query string              `json:"query,omitempty"`
	Count int                 `json:"count"`
}

// Ranking serves the ranked catalog, most undervalued first.
//
// Query parameters:
//   - filter: all (default), notRated, notMentioned, notHeardBefore.
//     Every filter except "all" requires an authenticated viewer.
//   - q: title prefix search. The query is normalized (lowercased, then
//     title-cased per word) and echoed back in the response.
//
// The response metadata carries the ranking generation the payload was
// built from, and no_match when a non-empty query matched nothing.
func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filterParam := r.URL.Query().Get("filter")
	if filterParam == "" {
		filterParam = string(models.FilterAll)
	}
	req := rankingRequest{Filter: filterParam}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ranked, generation, err := h.currentRanking(r)
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	filtered, err := h.filters.ApplyFilter(r.Context(), ranked, models.ViewFilter(req.Filter), auth.ViewerID(r.Context()))
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	result := ranking.Search(filtered, r.URL.Query().Get("q"))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: rankingResponse{
			Films: result.Films,
			Query: result.Query,
			Count: len(result.Films),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Generation:  generation,
			NoMatch:     result.NoMatch,
		},
	})
}

// RankingRefresh forces a full rebuild of the ranked catalog. A rebuild
// superseded by a newer one mid-flight is not an error; the newest
// snapshot is served either way.
func (h *Handler) RankingRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ranked, generation, err := h.session.Refresh(r.Context())
	if errors.Is(err, ranking.ErrStaleGeneration) {
		ranked, generation, err = h.session.Current()
	}
	if err != nil {
		respondDomainError(w, err, "DATABASE_ERROR")
		return
	}

	if h.wsHub != nil {
		h.wsHub.RankingRefreshed(generation)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"count":      len(ranked),
			"generation": generation,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Generation:  generation,
		},
	})
}

// currentRanking returns the live snapshot, building it on first use.
func (h *Handler) currentRanking(r *http.Request) ([]models.RankedFilm, uint64, error) {
	ranked, generation, err := h.session.Current()
	if errors.Is(err, ranking.ErrNotLoaded) {
		ranked, generation, err = h.session.Refresh(r.Context())
		if errors.Is(err, ranking.ErrStaleGeneration) {
			return h.session.Current()
		}
	}
	return ranked, generation, err
}
