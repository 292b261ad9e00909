// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package websocket pushes live ranking updates to connected browsers.
//
// The hub fans ranking.refreshed notifications out to every client so open
// catalog pages re-fetch the ranked list instead of polling. Fan-out is rate
// limited: a burst of mutations coalesces into at most a few notifications
// per second, and clients that fall behind are dropped rather than allowed
// to stall the broadcast loop.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication.
const (
	MessageTypeRankingRefreshed = "ranking.refreshed"
	MessageTypeCatalogUpdated   = "catalog.updated"
	MessageTypePing             = "ping"
	MessageTypePong             = "pong"
)

// Message represents a WebSocket message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// limiter caps ranking.refreshed fan-out; every mutation triggers a
	// rebuild, so a rating burst would otherwise flood every open page.
	limiter *rate.Limiter

	// pendingGen holds the newest generation suppressed by the limiter so
	// the next allowed broadcast carries it instead of a stale one.
	pendingMu  sync.Mutex
	pendingGen uint64
}

// NewHub creates a hub that allows broadcastPerSecond ranking notifications
// with a burst of one. Zero or negative disables limiting.
func NewHub(broadcastPerSecond float64) *Hub {
	limit := rate.Inf
	if broadcastPerSecond > 0 {
		limit = rate.Limit(broadcastPerSecond)
	}

	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// RunWithContext runs the hub until the context is canceled, then closes
// every client and returns ctx.Err(). Designed for suture supervision.
//
// Selection is priority ordered so behavior stays deterministic when several
// channels are ready: shutdown first, then client lifecycle, then broadcast.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.registerClient(client)
			continue
		case client := <-h.Unregister:
			h.unregisterClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// RankingRefreshedData is the payload of a ranking.refreshed message.
// Clients re-fetch the ranked catalog on receipt; the ranking itself is
// never pushed over the socket.
type RankingRefreshedData struct {
	Timestamp  string `json:"timestamp"`
	Generation uint64 `json:"generation"`
}

// RankingRefreshed notifies clients that a new ranking generation applied.
// Calls suppressed by the rate limiter park their generation so the next
// allowed call announces the newest one.
func (h *Hub) RankingRefreshed(generation uint64) {
	h.pendingMu.Lock()
	if generation > h.pendingGen {
		h.pendingGen = generation
	}
	generation = h.pendingGen
	h.pendingMu.Unlock()

	if !h.limiter.Allow() {
		logging.Debug().Uint64("generation", generation).Msg("ranking broadcast coalesced by rate limit")
		return
	}

	data := RankingRefreshedData{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Generation: generation,
	}

	select {
	case h.broadcast <- Message{Type: MessageTypeRankingRefreshed, Data: data}:
		metrics.WebSocketBroadcasts.Inc()
	default:
		logging.Warn().Msg("broadcast channel full, dropping ranking.refreshed message")
	}
}

// CatalogUpdatedData is the payload of a catalog.updated message, sent when
// a film is submitted or rejected.
type CatalogUpdatedData struct {
	Timestamp string `json:"timestamp"`
	FilmID    string `json:"film_id"`
	Change    string `json:"change"` // added or removed
}

// CatalogUpdated notifies clients that the catalog membership changed.
func (h *Hub) CatalogUpdated(filmID, change string) {
	data := CatalogUpdatedData{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		FilmID:    filmID,
		Change:    change,
	}

	select {
	case h.broadcast <- Message{Type: MessageTypeCatalogUpdated, Data: data}:
		metrics.WebSocketBroadcasts.Inc()
	default:
		logging.Warn().Msg("broadcast channel full, dropping catalog.updated message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastToClients sends a message to every client in client-ID order so
// delivery order is reproducible. A client with a full send buffer is
// dropped instead of blocking the loop.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WebSocketConnections.Set(0)
}
