package ws

import (
	"encoding/json"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client is one websocket connection. rooms is guarded by the hub lock.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	rooms     map[string]struct{}
	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, h.sendBuffer),
		rooms: make(map[string]struct{}),
	}
}

// trySend queues payload without blocking. Callers hold the hub lock.
func (c *Client) trySend(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.hub.enqueue(c, errorFrame{Event: "error", Message: "malformed frame"})
			continue
		}
		c.handle(frame)
	}
}

func (c *Client) handle(frame inboundFrame) {
	if frame.Action != "joinRoom" && frame.Action != "leaveRoom" {
		c.hub.enqueue(c, errorFrame{Event: "error", Message: "unknown action " + frame.Action})
		return
	}

	room, ok := roomName(frame.OrderID)
	if !ok {
		c.hub.enqueue(c, errorFrame{Event: "error", Message: "orderId must be a UUID or " + GlobalRoom})
		return
	}

	if frame.Action == "joinRoom" {
		c.hub.join(c, room)
		c.hub.enqueue(c, roomFrame{Event: "joinedRoom", OrderID: room})
		return
	}
	c.hub.leave(c, room)
	c.hub.enqueue(c, roomFrame{Event: "leftRoom", OrderID: room})
}

// roomName maps a requested order id onto the canonical form Notify uses, so
// uppercase, braced or urn ids land in the same room.
func roomName(orderID string) (string, bool) {
	if orderID == GlobalRoom {
		return GlobalRoom, true
	}
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
