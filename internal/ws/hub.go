package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
	"tush00nka/bbbab_chat/internal/event"
)

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 64 * 1024 // 64KB
	maxSendChannelSize = 256
)

// Metrics are cumulative hub counters.
type Metrics struct {
	Connections atomic.Int64
	Delivered   atomic.Int64
	Dropped     atomic.Int64
	Received    atomic.Int64
}

type HubStats struct {
	Connections int64 `json:"connections"`
	Delivered   int64 `json:"delivered"`
	Dropped     int64 `json:"dropped"`
	Received    int64 `json:"received"`
}

// Hub is the registry of live realtime connections.
type Hub struct {
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	clients map[*Client]struct{}
	metrics Metrics
}

func NewHub(log *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[*Client]struct{}),
	}
}

// Register moves a connecting client to Open and adds it to the registry.
// A client that was closed before registration, or that arrives after
// Shutdown, is rejected.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return false
	}

	if !c.open() {
		return false
	}

	h.clients[c] = struct{}{}
	h.metrics.Connections.Inc()
	h.log.Debug("ws client registered", "client_id", c.ID, "connections", len(h.clients))

	return true
}

// Unregister removes the client and closes it. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		h.metrics.Connections.Dec()
	}
	remaining := len(h.clients)
	h.mu.Unlock()

	c.Close()

	if ok {
		h.log.Debug("ws client unregistered", "client_id", c.ID, "connections", remaining)
	}
}

// Broadcast serializes ev once and queues it for every open client. It never
// blocks on a client: a full send buffer drops the frame for that client only.
// The number of clients that accepted the frame is returned.
func (h *Hub) Broadcast(ev event.Event) int {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to marshal event", "type", ev.Type, "error", err)
		return 0
	}

	delivered := 0
	for _, c := range h.snapshot() {
		if c.State() != StateOpen {
			continue
		}

		if c.SendRaw(data) {
			delivered++
			continue
		}

		// Closed between the state check and the send.
		if c.State() != StateOpen {
			continue
		}

		h.metrics.Dropped.Inc()
		h.log.Warn("ws send buffer full, dropping frame", "client_id", c.ID, "type", ev.Type)
	}

	h.metrics.Delivered.Add(int64(delivered))
	return delivered
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stats() HubStats {
	return HubStats{
		Connections: h.metrics.Connections.Load(),
		Delivered:   h.metrics.Delivered.Load(),
		Dropped:     h.metrics.Dropped.Load(),
		Received:    h.metrics.Received.Load(),
	}
}

// Shutdown closes every registered client.
func (h *Hub) Shutdown() {
	h.cancel()

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.metrics.Connections.Store(0)
	h.mu.Unlock()

	for c := range clients {
		c.Close()
	}

	h.log.Info("ws hub stopped", "closed", len(clients))
}

// snapshot copies the registry so no lock is held while sending.
func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}
