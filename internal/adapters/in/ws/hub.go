// Package ws is the push side of the notification fabric.
//
// Clients connect to the hub over a websocket and subscribe to rooms keyed by
// order id:
//
//	-> {"action":"joinRoom","orderId":"<id>"}
//	<- {"event":"joinedRoom","orderId":"<id>"}
//	<- {"event":"orderUpdated","orderId":"<id>","status":"Ready",...}
//
// Delivery is best effort: a client whose buffer is full misses the message
// and is expected to poll the status endpoint.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/order"

	"github.com/gorilla/websocket"
)

// GlobalRoom receives every event when global broadcast is enabled.
const GlobalRoom = "orders"

const defaultSendBuffer = 16

type Options struct {
	// GlobalBroadcast also pushes every event to GlobalRoom.
	GlobalBroadcast bool

	// SendBuffer is the per-client outbound queue length.
	SendBuffer int

	// CheckOrigin overrides the upgrader origin check. Nil accepts any origin.
	CheckOrigin func(r *http.Request) bool
}

// Hub tracks room memberships and fans events out to them.
// It implements ports.Notifier and http.Handler.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	globalBroadcast bool
	sendBuffer      int
	upgrader        websocket.Upgrader
	logger          *slog.Logger
}

func NewHub(logger *slog.Logger, opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Hub{
		rooms:           make(map[string]map[*Client]struct{}),
		clients:         make(map[*Client]struct{}),
		globalBroadcast: opts.GlobalBroadcast,
		sendBuffer:      opts.SendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With("component", "ws_hub"),
	}
}

// ServeHTTP upgrades the request and starts the client pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h, conn)
	h.register(c)

	go c.writePump()
	go c.readPump()
}

// Notify pushes an orderUpdated frame to the order's room, and to GlobalRoom
// when enabled. It never blocks on slow clients.
func (h *Hub) Notify(_ context.Context, event order.StatusChanged) error {
	payload, err := json.Marshal(newOrderUpdatedFrame(event))
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := make(map[*Client]struct{})
	h.fanOut(event.OrderID.String(), payload, sent)
	if h.globalBroadcast {
		h.fanOut(GlobalRoom, payload, sent)
	}
	return nil
}

// RoomSize returns the number of clients in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}

// fanOut must be called with h.mu held.
func (h *Hub) fanOut(room string, payload []byte, sent map[*Client]struct{}) {
	for c := range h.rooms[room] {
		if _, ok := sent[c]; ok {
			continue
		}
		sent[c] = struct{}{}
		if !c.trySend(payload) {
			h.logger.Warn("dropping message for slow client", "room", room)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// unregister drops every membership of c and closes its queue.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.removeFromRoom(c, room)
	}
	close(c.send)
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(c, room)
}

func (h *Hub) removeFromRoom(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// enqueue queues a reply frame for c under the hub lock so that it cannot
// race with unregister closing the queue.
func (h *Hub) enqueue(c *Client, frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to encode frame", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if !c.trySend(payload) {
		h.logger.Warn("dropping reply for slow client")
	}
}

type inboundFrame struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
}

type roomFrame struct {
	Event   string `json:"event"`
	OrderID string `json:"orderId"`
}

type errorFrame struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type orderUpdatedFrame struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	CourierID *string   `json:"courierId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newOrderUpdatedFrame(event order.StatusChanged) orderUpdatedFrame {
	f := orderUpdatedFrame{
		Event:     "orderUpdated",
		OrderID:   event.OrderID.String(),
		Status:    event.Status.String(),
		UpdatedAt: event.OccurredAt,
	}
	if event.CourierID != nil {
		id := event.CourierID.String()
		f.CourierID = &id
	}
	return f
}
