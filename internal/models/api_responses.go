// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP
// endpoints. It provides consistent structure for both successful and error
// responses, with metadata for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"films": [...], "generation": 4},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z", "query_time_ms": 12}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339)
//   - QueryTimeMS: Backing query/build execution time in milliseconds
//   - Cached: Whether the response was served from cache (omitted if false)
//   - Generation: Ranking refresh generation the payload was built from
//     (omitted for endpoints that do not serve ranked data)
//   - NoMatch: Set when a non-empty search query matched nothing, so clients
//     can distinguish "nothing matched" from "data not loaded yet"
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Generation  uint64    `json:"generation,omitempty"`
	NoMatch     bool      `json:"no_match,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - SIGNAL_FETCH_ERROR: Signal store unreachable during a ranking build
//   - ALREADY_ANSWERED: Mention already recorded for this (user, film)
//   - INVALID_RATING: Rating outside the 1-10 range
//   - MUTATION_FAILURE: Mutation sink rejected or was unreachable
//   - FILM_EXISTS: A film with this title and year is already listed
//   - NOT_FOUND: Resource doesn't exist
//   - DATABASE_ERROR: Query execution failure
//   - AUTHENTICATION_ERROR: Invalid/missing credentials
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
