// AngelaMos | 2026
// handler.go

package media

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/middleware"
)

type UploadResponse struct {
	UploadURL        string    `json:"upload_url"`
	ProfileImagePath string    `json:"profile_image_path"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects r to be the authenticated /users subrouter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/me/profile-image", h.Upload)
	r.Get("/{userID}/profile-image", h.Download)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	up, err := h.service.UploadURL(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UploadResponse{
		UploadURL:        up.URL,
		ProfileImagePath: up.Key,
		ExpiresAt:        up.ExpiresAt,
	})
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(chi.URLParam(r, "userID"), "user id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	url, err := h.service.DownloadURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile image")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
