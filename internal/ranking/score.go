// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"github.com/undervaluedfilms/filmrank/internal/models"
)

// MaxRating is the highest rating a user can give a film.
const MaxRating = 10

// Score maps one film's aggregate community signals to its undervalued-ness
// rank score in [0, 100].
//
// The score averages two components:
//
//   - awareness: the share of interacting users who had not heard of the
//     film before, scaled to 100. More obscurity means more undervalued.
//   - quality: the rating total normalized by the maximum possible total,
//     divided once more by the rating count, scaled to 100.
//
// A film with no community interaction at all scores 0 and ranks at the
// bottom; an unknown quantity should not flood the top of the list.
//
// NOTE: the second division by RatingCount in the quality term collapses it
// toward zero for any film with more than one rating. The intended formula
// was almost certainly the plain normalized average, but display thresholds
// and the rate-7-or-higher share prompt were tuned against this exact curve,
// so it is reproduced as observed pending product confirmation.
func Score(agg models.SignalAggregate) float64 {
	denom := agg.NotHeardCount + agg.HeardNotRated + agg.RatingCount
	if denom == 0 {
		return 0
	}

	awareness := float64(agg.NotHeardCount) / float64(denom) * 100

	var quality float64
	if agg.RatingCount > 0 {
		quality = float64(agg.RatingSum) /
			(float64(MaxRating) * float64(agg.RatingCount)) /
			float64(agg.RatingCount) * 100
	}

	return (awareness + quality) / 2
}
