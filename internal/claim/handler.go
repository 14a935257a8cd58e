// AngelaMos | 2026
// handler.go

package claim

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts /claims. The document upload route is mounted by
// the document package under the same prefix.
func (h *Handler) RegisterRoutes(r chi.Router, g *middleware.Guards) {
	staff := g.Require(
		middleware.Authenticated(),
		middleware.HasAnyRole(middleware.RoleAgent, middleware.RoleAdmin),
	)

	r.Route("/claims", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(g.Require(middleware.Authenticated()))
			r.Post("/", h.Submit)
			r.Get("/mine", h.ListMine)
			r.Get("/{id}", h.Get)
		})

		r.With(staff).Get("/", h.ListAll)
		r.With(staff).Patch("/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Submit(r.Context(), middleware.GetEmail(r.Context()), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToClaimResponse(c))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.ListForCustomer(
		r.Context(),
		middleware.GetEmail(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToClaimResponseList(claims))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
	}
	params.Normalize()

	claims, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		ToClaimResponseList(claims),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	role, err := middleware.CallerRole(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Get(r.Context(), id, middleware.GetEmail(r.Context()), role)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "claim")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToClaimResponse(c))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "claim")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToClaimResponse(c))
}
