// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"context"
	"fmt"

	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// Engine applies viewer-scoped view filters to a ranked catalog.
//
// The non-trivial filters intersect the ranked sequence with a per-viewer
// membership list from the signal store; that list is not derivable from the
// already-fetched aggregates, which is why filter changes trigger a
// store round trip.
type Engine struct {
	signals stores.SignalStore
}

// NewEngine creates a filter engine over the signal store.
func NewEngine(signals stores.SignalStore) *Engine {
	return &Engine{signals: signals}
}

// ApplyFilter restricts ranked to the subset selected by filter for the
// given viewer. Order within the filtered subset is preserved exactly;
// filtering never re-sorts.
//
// FilterAll is the identity and works for anonymous viewers. Every other
// filter requires a viewer; calling one without a viewerID is a caller
// contract violation surfaced as ErrViewerRequired.
func (e *Engine) ApplyFilter(ctx context.Context, ranked []models.RankedFilm, filter models.ViewFilter, viewerID string) ([]models.RankedFilm, error) {
	if filter == models.FilterAll {
		return ranked, nil
	}
	if viewerID == "" {
		return nil, ErrViewerRequired
	}

	var (
		members []models.Film
		err     error
	)
	switch filter {
	case models.FilterNotRated:
		members, err = e.signals.ListNotRated(ctx, viewerID)
	case models.FilterNotMentioned:
		members, err = e.signals.ListNotMentioned(ctx, viewerID)
	case models.FilterNotHeardBefore:
		members, err = e.signals.ListNotHeardBefore(ctx, viewerID)
	default:
		return nil, fmt.Errorf("unknown view filter %q", filter)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s membership for viewer %s: %w", filter, viewerID, err)
	}

	keep := make(map[string]struct{}, len(members))
	for _, f := range members {
		keep[f.ID] = struct{}{}
	}

	filtered := make([]models.RankedFilm, 0, len(keep))
	for _, rf := range ranked {
		if _, ok := keep[rf.Film.ID]; ok {
			filtered = append(filtered, rf)
		}
	}

	return filtered, nil
}
