// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// mutations.go - MutationSink implementation.
package database

import (
	"context"
	"fmt"

	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// RecordMention stores a write-once awareness answer. The UNIQUE constraint
// on (user_id, film_id) is what makes the answer immutable under concurrent
// submissions; a violated insert maps to ErrAlreadyAnswered.
func (db *DB) RecordMention(ctx context.Context, userID, filmID string, hadHeardBefore bool) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO mentions (user_id, film_id, had_heard_before) VALUES (?, ?, ?)`,
		userID, filmID, hadHeardBefore)
	if err != nil {
		if isUniqueConstraintError(err) {
			return stores.ErrAlreadyAnswered
		}
		return fmt.Errorf("failed to insert mention: %w", err)
	}
	return nil
}

// RecordRating stores or overwrites the user's rating. Ratings are editable,
// so a conflicting insert updates in place.
func (db *DB) RecordRating(ctx context.Context, userID, filmID string, rating int) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO ratings (user_id, film_id, rating) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, film_id) DO UPDATE
		 SET rating = EXCLUDED.rating, updated_at = now()`,
		userID, filmID, rating)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// RecordWatchClick logs an attributed watch-link click-through.
func (db *DB) RecordWatchClick(ctx context.Context, userID, filmID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO watch_clicks (user_id, film_id) VALUES (?, ?)`,
		userID, filmID)
	if err != nil {
		return fmt.Errorf("failed to insert watch click: %w", err)
	}
	return nil
}
