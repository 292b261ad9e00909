// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package metrics provides Prometheus instrumentation for Filmrank:
// ranking build performance, signal-store health, cache efficiency,
// mutation throughput, and HTTP endpoint latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking Metrics
	RankingBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_build_duration_seconds",
			Help:    "Duration of full catalog ranking builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankingBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_builds_total",
			Help: "Total number of ranking builds by outcome",
		},
		[]string{"outcome"}, // "success", "error", "stale"
	)

	RankingGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ranking_generation",
			Help: "Latest applied ranking refresh generation",
		},
	)

	// Signal Store Metrics
	AggregateFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signal_aggregate_fetch_duration_seconds",
			Help:    "Duration of per-film signal aggregate fetches in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	AggregateFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_aggregate_fetch_errors_total",
			Help: "Total number of failed signal aggregate fetches",
		},
	)

	// Aggregate Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregate_cache_hits_total",
			Help: "Total number of aggregate cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregate_cache_misses_total",
			Help: "Total number of aggregate cache misses",
		},
	)

	// Mutation Metrics
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutations_total",
			Help: "Total number of mutation submissions by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: "mention"|"rating"|"watch_click"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// WebSocket Metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of connected WebSocket clients",
		},
	)

	WebSocketBroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_broadcasts_total",
			Help: "Total number of WebSocket broadcast messages",
		},
	)
)

// RecordAPIRequest records method, path, status, and latency for a request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRankingBuild records the outcome and duration of one ranking build.
func RecordRankingBuild(outcome string, duration time.Duration) {
	RankingBuildsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		RankingBuildDuration.Observe(duration.Seconds())
	}
}
