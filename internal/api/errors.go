// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// errors.go - Mapping from domain errors to HTTP status and API error codes.
package api

import (
	"errors"
	"net/http"

	"github.com/undervaluedfilms/filmrank/internal/mutation"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// isStale reports whether a refresh lost the race to a newer generation.
func isStale(err error) bool {
	return errors.Is(err, ranking.ErrStaleGeneration)
}

// respondDomainError maps a domain error to its HTTP representation.
// Errors without a dedicated mapping fall back to defaultCode with a 500.
func respondDomainError(w http.ResponseWriter, err error, defaultCode string) {
	var invalidRating *mutation.InvalidRatingError
	var fetchErr *ranking.SignalFetchError

	switch {
	case errors.Is(err, stores.ErrAlreadyAnswered):
		respondError(w, http.StatusConflict, "ALREADY_ANSWERED", "Mention already recorded for this film", nil)
	case errors.As(err, &invalidRating):
		respondError(w, http.StatusBadRequest, "INVALID_RATING", invalidRating.Error(), nil)
	case errors.Is(err, stores.ErrFilmExists):
		respondError(w, http.StatusConflict, "FILM_EXISTS", "A film with this title and year is already listed", nil)
	case errors.Is(err, stores.ErrFilmNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Film not found", nil)
	case errors.As(err, &fetchErr):
		respondError(w, http.StatusBadGateway, "SIGNAL_FETCH_ERROR", "Signal store unreachable during ranking build", err)
	case errors.Is(err, ranking.ErrViewerRequired):
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "This view filter requires an authenticated viewer", nil)
	case errors.Is(err, ranking.ErrNotLoaded):
		respondError(w, http.StatusServiceUnavailable, "SIGNAL_FETCH_ERROR", "Ranking not available yet", nil)
	default:
		respondError(w, http.StatusInternalServerError, defaultCode, "Internal error", err)
	}
}
