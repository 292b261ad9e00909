// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// errors.go - Mutation error types.
package mutation

import (
	"fmt"

	"github.com/undervaluedfilms/filmrank/internal/ranking"
)

// InvalidRatingError reports a rating outside [1, MaxRating]. The value is
// rejected before any persistence call is made.
type InvalidRatingError struct {
	Rating int
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("rating %d out of range [1, %d]", e.Rating, ranking.MaxRating)
}
