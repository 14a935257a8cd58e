// AngelaMos | 2026
// handler.go

package payment

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

// RegisterRoutes mounts /payments. limit runs after the guards so the
// budget is keyed on the caller rather than the client address.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	g *middleware.Guards,
	limit func(http.Handler) http.Handler,
) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(g.Require(middleware.Authenticated()))
		r.Get("/", h.History)

		r.Group(func(r chi.Router) {
			if limit != nil {
				r.Use(limit)
			}
			r.Post("/intent", h.CreateIntent)
			r.Post("/", h.Complete)
		})
	})
}

func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	intent, err := h.service.CreateIntent(
		r.Context(),
		middleware.GetEmail(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, intent)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Complete(
		r.Context(),
		middleware.GetEmail(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	role, err := middleware.CallerRole(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	payments, err := h.service.History(
		r.Context(),
		middleware.GetEmail(r.Context()),
		role,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, payments)
}
