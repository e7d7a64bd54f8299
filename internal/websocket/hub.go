// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
)

// Message types pushed to clients.
const (
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeRunCompleted = "run_completed"
)

// Message is the wire envelope for every hub payload.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks connected clients and fans broadcasts out to them.
//
// All state changes flow through RunWithContext's loop. The loop
// drains lifecycle events (Register/Unregister) before broadcasts so
// a departing client never receives a message after its unregister,
// and broadcast order is deterministic: clients are walked in
// connection order, not map order.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub returns an idle Hub; RunWithContext starts it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub loop until ctx is canceled, then closes
// every client and returns ctx.Err(). Designed for suture supervision:
// a restart starts from an empty client set.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Shutdown outranks everything.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Lifecycle events outrank broadcasts.
		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := sortedClients(h.clients)
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("Websocket hub stopped")
}

// broadcastToClients delivers to every client in connection order. A
// client whose queue is full is dropped on the spot.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dropped []*Client
	for _, client := range sortedClients(h.clients) {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			dropped = append(dropped, client)
		}
	}

	for _, client := range dropped {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("Dropping slow websocket client")
	}
	if len(dropped) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// sortedClients orders clients by their connection counter. Callers
// hold h.mu.
func sortedClients(m map[*Client]bool) []*Client {
	clients := make([]*Client, 0, len(m))
	for client := range m {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// BroadcastJSON queues a message for every client, dropping it when
// the queue is full rather than blocking the caller.
func (h *Hub) BroadcastJSON(messageType string, data any) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		metrics.WSErrors.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("message_type", messageType).Msg("Broadcast channel full, dropping message")
	}
}

// RunCompletedData is the payload of a run_completed message.
type RunCompletedData struct {
	Timestamp     string `json:"timestamp"`
	Discipline    string `json:"discipline"`
	PointsCreated int    `json:"points_created"`
	RunDurationMs int64  `json:"run_duration_ms"`
}

// BroadcastRunCompleted announces that a discipline's recalculation
// run committed with pointsCreated new points rows.
func (h *Hub) BroadcastRunCompleted(discipline string, pointsCreated int, durationMs int64) {
	data := RunCompletedData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Discipline:    discipline,
		PointsCreated: pointsCreated,
		RunDurationMs: durationMs,
	}

	select {
	case h.broadcast <- Message{Type: MessageTypeRunCompleted, Data: data}:
		logging.Info().
			Int("clients", h.GetClientCount()).
			Str("discipline", discipline).
			Int("points_created", pointsCreated).
			Msg("Broadcast run_completed")
	default:
		metrics.WSErrors.WithLabelValues("queue_full").Inc()
		logging.Warn().Msg("Broadcast channel full, dropping run_completed message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
