// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/config"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()

	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "test-secret-at-least-32-characters!!",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("creating JWT manager: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken("user-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("claims = %q/%q, want user-1/alice", claims.UserID, claims.Username)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken("user-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.ValidateToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}

	if _, err := m.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "another-secret-also-32-characters!!!",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("creating second manager: %v", err)
	}

	token, err := other.GenerateToken("user-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestRequireAuth(t *testing.T) {
	m := newTestManager(t)

	var gotViewer string
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotViewer = ViewerID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No token: 401 with the error envelope.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ratings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AUTHENTICATION_ERROR") {
		t.Errorf("error body missing AUTHENTICATION_ERROR: %s", rec.Body.String())
	}

	// Valid token: request passes with viewer attached.
	token, err := m.GenerateToken("user-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ratings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status with token = %d, want 200", rec.Code)
	}
	if gotViewer != "user-1" {
		t.Errorf("viewer in context = %q, want user-1", gotViewer)
	}
}

func TestOptionalAuth(t *testing.T) {
	m := newTestManager(t)

	var gotViewer string
	handler := m.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotViewer = ViewerID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous passes through.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ranking", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous status = %d, want 200", rec.Code)
	}
	if gotViewer != "" {
		t.Errorf("anonymous viewer = %q, want empty", gotViewer)
	}

	// An invalid token is rejected, not downgraded to anonymous.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ranking", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("invalid token status = %d, want 401", rec.Code)
	}
}
