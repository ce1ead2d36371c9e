// AngelaMos | 2026
// handler.go

package post

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
	r.Post("/{havenID}/posts", h.Create)
	r.Get("/{havenID}/posts", h.List)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	havenID, err := haven.ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req CreatePostRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	callerID := middleware.GetUserID(r.Context())
	created, err := h.service.Create(r.Context(), callerID, havenID, req)
	if err != nil {
		haven.WriteError(w, err)
		return
	}

	core.Created(w, CreatePostResponse{
		Message: "post created",
		Post:    ToPostResponse(created),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	havenID, err := haven.ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	posts, err := h.service.List(r.Context(), havenID)
	if err != nil {
		haven.WriteError(w, err)
		return
	}

	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	core.OK(w, out)
}
