// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// errors.go - Sentinel errors shared by store implementations and callers.
package stores

import "errors"

var (
	// ErrAlreadyAnswered indicates a mention record already exists for the
	// (user, film) pair. Mentions are write-once; this is a business-rule
	// rejection, not a system fault.
	ErrAlreadyAnswered = errors.New("mention already answered for this film")

	// ErrFilmExists indicates a film with the same title and release year
	// is already on the list.
	ErrFilmExists = errors.New("film is already on the list")

	// ErrFilmNotFound indicates no film matched the lookup.
	ErrFilmNotFound = errors.New("film not found")
)
