// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// errors.go - Ranking error types and sentinels.
package ranking

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleGeneration indicates a refresh completed after a newer
	// refresh had already been requested; its result was discarded.
	ErrStaleGeneration = errors.New("ranking refresh superseded by a newer generation")

	// ErrViewerRequired indicates a viewer-scoped filter was requested
	// without an authenticated viewer.
	ErrViewerRequired = errors.New("view filter requires an authenticated viewer")

	// ErrNotLoaded indicates the ranked catalog has not been built yet.
	ErrNotLoaded = errors.New("ranked catalog not loaded yet")
)

// SignalFetchError reports a failed signal-store fetch during a ranking
// build. The build never masks a fetch failure with a fallback score; the
// calling surface decides whether to retry the refresh or show an error.
type SignalFetchError struct {
	FilmID string
	Err    error
}

func (e *SignalFetchError) Error() string {
	return fmt.Sprintf("fetching signal aggregate for film %s: %v", e.FilmID, e.Err)
}

func (e *SignalFetchError) Unwrap() error {
	return e.Err
}
