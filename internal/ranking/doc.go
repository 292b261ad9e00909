// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package ranking implements the catalog-ranking core: per-film score
// computation, concurrent ranked-catalog builds with refresh generations,
// viewer-scoped filtering, and prefix search over the ranked result.
//
// # Pipeline
//
//	signal store -> Score -> Builder -> Engine.ApplyFilter -> Search -> display
//
// A Session owns the ranked state for one viewer session. Refreshes fan out
// per-film aggregate fetches, fan in completely before sorting, and carry a
// monotonically increasing generation; a completion whose generation has been
// superseded is discarded so rapid filter toggling can never apply a stale
// ranking out of order.
//
// # Failure semantics
//
// A failed aggregate fetch aborts the whole build and surfaces as a
// *SignalFetchError. A film with no signal scores 0; a film whose signal
// source errored is never silently given a fallback score - the two cases
// stay distinguishable all the way to the calling surface.
package ranking
