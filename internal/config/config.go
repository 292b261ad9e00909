// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package config loads and validates the server configuration from layered
// sources: built-in defaults, an optional YAML file, and environment
// variables, in increasing order of precedence.
package config

import (
	"time"
)

// Config is the root configuration for the Filmrank server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	API       APIConfig       `koanf:"api"`
	Ranking   RankingConfig   `koanf:"ranking"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds the DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// SeedMockData loads a small demo catalog on first start.
	SeedMockData bool `koanf:"seed_mock_data"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required in production.
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AccessPassword is the shared club password checked by the login
	// endpoint. Login is disabled when empty.
	AccessPassword string `koanf:"access_password"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds response shaping settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// RankingConfig tunes the ranked catalog pipeline.
type RankingConfig struct {
	// Concurrency bounds in-flight aggregate fetches per build.
	Concurrency int `koanf:"concurrency"` // 0 = runtime.NumCPU()

	// FetchTimeout is the per-film aggregate fetch timeout.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// RefreshTimeout bounds a post-mutation rebuild.
	RefreshTimeout time.Duration `koanf:"refresh_timeout"`

	// CacheTTL is the aggregate cache entry lifetime.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RefreshInterval is the periodic safety-net rebuild cadence.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// WebSocketConfig tunes the live update hub.
type WebSocketConfig struct {
	Enabled bool `koanf:"enabled"`

	// BroadcastPerSecond caps ranking.refreshed fan-out so mutation
	// bursts coalesce instead of flooding clients.
	BroadcastPerSecond float64 `koanf:"broadcast_per_second"`

	WriteTimeout time.Duration `koanf:"write_timeout"`
	PongTimeout  time.Duration `koanf:"pong_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
