// AngelaMos | 2026
// hub.go

package realtime

import (
	"log/slog"
	"sync"
)

// Hub owns room membership. Delivery is best effort: a client whose send
// buffer is full misses the frame.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]map[string]struct{}
	rooms   map[string]map[*Client]struct{}
	logger  *slog.Logger
}

type Stats struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]map[string]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = make(map[string]struct{})
	h.mu.Unlock()

	h.logger.Info("websocket connected", "conn_id", c.id)
}

// Unregister drops c from every room and closes its send channel. Empty
// rooms are removed. Calling it twice is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	joined, ok := h.clients[c]
	if !ok {
		h.mu.Unlock()
		return
	}

	for room := range joined {
		members := h.rooms[room]
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	h.logger.Info("websocket disconnected", "conn_id", c.id)
}

func (h *Hub) Join(c *Client, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.clients[c]
	if !ok {
		return false
	}

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	joined[room] = struct{}{}

	return true
}

// Publish encodes the event once and queues it for every member of room.
// It returns how many clients accepted the frame.
func (h *Hub) Publish(room, event string, data any) int {
	frame, err := encode(event, data)
	if err != nil {
		h.logger.Error("encode event", "event", event, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.rooms[room] {
		if c.enqueue(frame) {
			delivered++
			continue
		}
		h.logger.Warn("send buffer full, dropping frame",
			"conn_id", c.id,
			"room", room,
			"event", event,
		)
	}

	return delivered
}

// Direct queues an event for a single client.
func (h *Hub) Direct(c *Client, event string, data any) bool {
	frame, err := encode(event, data)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c]; !ok {
		return false
	}
	return c.enqueue(frame)
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return Stats{
		Connections: len(h.clients),
		Rooms:       len(h.rooms),
	}
}

// Close disconnects every client, used during shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}
