// AngelaMos | 2026
// client.go

package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/carterperez-dev/safehaven/internal/config"
)

// Client is one WebSocket connection. The read pump owns all reads and
// the write pump all writes.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	cfg  config.RealtimeConfig
}

func newClient(hub *Hub, conn *websocket.Conn, cfg config.RealtimeConfig) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, cfg.SendBuffer),
		cfg:  cfg,
	}
}

func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) pingPeriod() time.Duration {
	return (c.cfg.PongWait * 9) / 10
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close() //nolint:errcheck // connection is going away
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)) //nolint:errcheck // checked on next read
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure,
			) {
				c.hub.logger.Warn("websocket read failed", "conn_id", c.id, "error", err)
			}
			return
		}

		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.Direct(c, EventError, ErrorPayload{Message: "malformed frame"})
		return
	}

	switch env.Event {
	case EventJoinHaven:
		havenID, err := parseJoin(env.Data)
		if err != nil {
			c.hub.Direct(c, EventError, ErrorPayload{Message: err.Error()})
			return
		}

		room := HavenRoom(havenID)
		if c.hub.Join(c, room) {
			c.hub.logger.Debug("joined room", "conn_id", c.id, "room", room)
			c.hub.Direct(c, EventJoined, JoinedPayload{HavenID: havenID})
		}
	default:
		c.hub.Direct(c, EventError, ErrorPayload{Message: "unknown event"})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() //nolint:errcheck // connection is going away
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)) //nolint:errcheck // surfaced by the write
			if !ok {
				//nolint:errcheck // peer may already be gone
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)) //nolint:errcheck // surfaced by the write
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
