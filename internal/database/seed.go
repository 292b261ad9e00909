// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// seed.go - Demo catalog for development.
package database

import (
	"fmt"

	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/models"
)

// seedMockData loads a small demo catalog when the films table is empty.
// Production deployments leave SeedMockData off and start from a clean
// catalog.
func (db *DB) seedMockData() error {
	ctx, cancel := schemaContext()
	defer cancel()

	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM films`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count films: %w", err)
	}
	if count > 0 {
		return nil
	}

	demo := []models.Film{
		{Title: "Primer", ReleaseYear: 2004, Description: "Two engineers accidentally build something in their garage.", WatchLink: "https://example.com/watch/primer"},
		{Title: "The Fall", ReleaseYear: 2006, Description: "A stuntman tells a little girl an epic story from his hospital bed.", WatchLink: "https://example.com/watch/the-fall"},
		{Title: "Coherence", ReleaseYear: 2013, Description: "A dinner party fractures during a comet pass.", WatchLink: "https://example.com/watch/coherence"},
		{Title: "The Man from Earth", ReleaseYear: 2007, Description: "A departing professor makes an impossible claim to his colleagues."},
		{Title: "Sound of My Voice", ReleaseYear: 2011, Description: "Two documentarians infiltrate a cult led by a woman from the future."},
	}

	for _, film := range demo {
		if _, err := db.AddFilm(ctx, film); err != nil {
			return fmt.Errorf("failed to seed film %q: %w", film.Title, err)
		}
	}

	logging.Info().Int("films", len(demo)).Msg("seeded demo catalog")
	return nil
}
