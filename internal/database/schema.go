// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// schema.go - Table creation and indexes.
//
// Tables:
//   - films: the submitted catalog; (title, release_year) is unique and the
//     rowid insertion order is the ranking tie-break order
//   - mentions: write-once awareness answers, one per (user, film)
//   - ratings: editable 1-10 ratings, one per (user, film)
//   - watch_clicks: attributed watch-link click-throughs
package database

import "fmt"

// createTables creates the core tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS films_seq START 1`,

		`CREATE TABLE IF NOT EXISTS films (
			id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL DEFAULT nextval('films_seq'),
			title TEXT NOT NULL,
			release_year INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			watch_link TEXT NOT NULL DEFAULT '',
			submitted_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (title, release_year)
		)`,

		`CREATE TABLE IF NOT EXISTS mentions (
			user_id TEXT NOT NULL,
			film_id TEXT NOT NULL,
			had_heard_before BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, film_id)
		)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			user_id TEXT NOT NULL,
			film_id TEXT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, film_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watch_clicks (
			user_id TEXT NOT NULL,
			film_id TEXT NOT NULL,
			clicked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_films_seq ON films (seq)`,
		`CREATE INDEX IF NOT EXISTS idx_mentions_film ON mentions (film_id)`,
		`CREATE INDEX IF NOT EXISTS idx_mentions_user ON mentions (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_film ON ratings (film_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings (user_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}
