// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects r to be the authenticated /users subrouter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.GetMe)
	r.Get("/{userID}", h.GetUser)
	r.Put("/{userID}", h.UpdateUser)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	h.writeUser(w, r, middleware.GetUserID(r.Context()))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(chi.URLParam(r, "userID"), "user id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.writeUser(w, r, id)
}

func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(chi.URLParam(r, "userID"), "user id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	callerID := middleware.GetUserID(r.Context())
	user, err := h.service.UpdateUser(r.Context(), callerID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, core.ErrDuplicateKey), core.IsAppError(err):
			core.JSONError(w, err)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, UpdateUserResponse{
		Message: "user updated",
		User:    ToUserResponse(user),
	})
}
