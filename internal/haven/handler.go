// AngelaMos | 2026
// handler.go

package haven

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/middleware"
)

const IDParam = "havenID"

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes expects r to be the authenticated /havens subrouter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/can-create", h.CanCreate)
	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{havenID}", h.Get)
	r.Put("/{havenID}", h.Update)
	r.Delete("/{havenID}", h.Delete)
}

// ParseID reads the haven id path parameter.
func ParseID(r *http.Request) (int64, error) {
	return core.ParseID(chi.URLParam(r, IDParam), "haven id")
}

// WriteError maps haven lookup and ownership failures to responses.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "haven")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case core.IsAppError(err):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) CanCreate(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Quota(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCanCreateResponse(q))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHavenRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	created, q, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrQuotaExceeded):
			core.JSON(w, http.StatusForbidden, QuotaExceededResponse{
				Error:           "free haven limit reached",
				MaxHavens:       q.Limit,
				RemainingHavens: 0,
			})
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CreateHavenResponse{
		Message:         "haven created",
		Haven:           ToHavenResponse(created),
		RemainingHavens: remainingValue(q),
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	havens, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToHavenResponseList(havens))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, ToHavenResponse(found))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateHavenRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, HavenMessageResponse{
		Message: "haven updated",
		Haven:   ToHavenResponse(updated),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		WriteError(w, err)
		return
	}

	core.Message(w, "haven deleted")
}
