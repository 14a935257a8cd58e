// AngelaMos | 2026
// handler.go

package agent

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

func (h *Handler) RegisterRoutes(r chi.Router, g *middleware.Guards) {
	admin := g.Require(
		middleware.Authenticated(),
		middleware.HasRole(middleware.RoleAdmin),
	)

	r.Route("/agent-applications", func(r chi.Router) {
		r.With(g.Require(middleware.Authenticated())).Post("/", h.Apply)
		r.With(admin).Get("/", h.List)
		r.With(admin).Patch("/{id}/status", h.Decide)
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Apply(r.Context(), middleware.GetEmail(r.Context()), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("agent application"))
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, a)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
	}
	params.Normalize()

	apps, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, apps, params.Page, params.PageSize, total)
}

func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Decide(r.Context(), id, Status(req.Status))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "agent application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, a)
}
