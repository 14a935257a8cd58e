// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

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
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.With(g.Require(middleware.Authenticated())).Post("/", h.Create)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rv, err := h.service.Create(r.Context(), middleware.GetEmail(r.Context()), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("review for this policy"))
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, rv)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	policyID := r.URL.Query().Get("policy_id")
	if policyID != "" {
		if err := uuid.Validate(policyID); err != nil {
			core.BadRequest(w, "invalid policy_id")
			return
		}
	}

	reviews, err := h.service.Latest(
		r.Context(),
		policyID,
		core.QueryInt(r, "limit", defaultListLimit),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, reviews)
}
