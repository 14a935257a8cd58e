// AngelaMos | 2026
// handler.go

package application

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
	agent := g.Require(
		middleware.Authenticated(),
		middleware.HasRole(middleware.RoleAgent),
	)
	customer := g.Require(
		middleware.Authenticated(),
		middleware.HasRole(middleware.RoleCustomer),
	)

	r.Route("/applications", func(r chi.Router) {
		r.With(customer).Post("/", h.Submit)
		r.With(admin).Get("/", h.ListAll)
		r.With(agent).Get("/assigned", h.ListAssigned)

		r.Group(func(r chi.Router) {
			r.Use(g.Require(middleware.Authenticated()))
			r.Get("/mine", h.ListMine)
			r.Get("/{id}", h.Get)
		})

		r.With(admin).Patch("/{id}/agent", h.AssignAgent)
		r.With(admin).Patch("/{id}/status", h.Decide)
		r.With(agent).Patch("/{id}/payment-due", h.MarkPaymentDue)
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

	app, err := h.service.Submit(r.Context(), middleware.GetEmail(r.Context()), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "policy")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToApplicationResponse(app))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListForCustomer(
		r.Context(),
		middleware.GetEmail(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToApplicationResponseList(apps))
}

func (h *Handler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListForAgent(
		r.Context(),
		middleware.GetEmail(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToApplicationResponseList(apps))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
	}
	params.Normalize()

	apps, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		ToApplicationResponseList(apps),
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

	app, err := h.service.Get(
		r.Context(),
		id,
		middleware.GetEmail(r.Context()),
		role,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToApplicationResponse(app))
}

func (h *Handler) AssignAgent(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req AssignAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	app, err := h.service.AssignAgent(r.Context(), id, req.AgentEmail)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToApplicationResponse(app))
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

	app, err := h.service.Decide(r.Context(), id, Status(req.Status))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToApplicationResponse(app))
}

func (h *Handler) MarkPaymentDue(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	app, err := h.service.MarkPaymentDue(
		r.Context(),
		id,
		middleware.GetEmail(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToApplicationResponse(app))
}
