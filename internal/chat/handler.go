// AngelaMos | 2026
// handler.go

package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/haven"
	"github.com/carterperez-dev/safehaven/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/{havenID}/messages", h.Send)
	r.Get("/{havenID}/messages", h.List)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	havenID, err := haven.ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req SendMessageRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	m, err := h.service.Send(r.Context(), middleware.GetUserID(r.Context()), havenID, req)
	if err != nil {
		haven.WriteError(w, err)
		return
	}

	core.Created(w, SendMessageResponse{
		Message:     "message sent",
		ChatMessage: ToMessageResponse(m),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	havenID, err := haven.ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	messages, err := h.service.List(r.Context(), havenID)
	if err != nil {
		haven.WriteError(w, err)
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, ToMessageResponse(&messages[i]))
	}
	core.OK(w, out)
}
