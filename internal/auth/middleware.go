// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

type contextKey string

const claimsKey contextKey = "viewer_claims"

// ViewerFromContext returns the authenticated viewer claims, if any.
func ViewerFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// ViewerID returns the authenticated viewer's user ID, or "" for anonymous
// requests.
func ViewerID(ctx context.Context) string {
	if claims, ok := ViewerFromContext(ctx); ok {
		return claims.UserID
	}
	return ""
}

// ContextWithClaims attaches viewer claims to a context. Exposed for tests.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// RequireAuth rejects requests without a valid bearer token. Used on
// mutation endpoints and viewer-scoped reads.
func (m *JWTManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claimsFromRequest(r)
		if err != nil {
			respondUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches viewer claims when a valid token is present and
// passes anonymous requests through untouched. A present but invalid token
// is still rejected rather than silently downgraded to anonymous.
func (m *JWTManager) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.claimsFromRequest(r)
		if err != nil {
			respondUnauthorized(w, "Invalid session token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func (m *JWTManager) claimsFromRequest(r *http.Request) (*Claims, error) {
	return m.ValidateToken(bearerToken(r))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}
