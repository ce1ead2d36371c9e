// AngelaMos | 2026
// handler.go

package realtime

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/carterperez-dev/safehaven/internal/config"
)

type Handler struct {
	hub      *Hub
	cfg      config.RealtimeConfig
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the configured CORS origins. Requests
// without an Origin header are not from a browser and are let through.
func NewHandler(hub *Hub, cfg config.RealtimeConfig, allowedOrigins []string) *Handler {
	return &Handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.ServeWS)
}

// ServeWS upgrades the connection. Sockets are anonymous: joining a room
// needs no token.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h.hub, conn, h.cfg)
	h.hub.Register(c)

	go c.writePump()
	go c.readPump()
}
