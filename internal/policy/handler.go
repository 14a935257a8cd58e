// AngelaMos | 2026
// handler.go

package policy

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
	adminOnly := g.Require(
		middleware.Authenticated(),
		middleware.HasRole(middleware.RoleAdmin),
	)

	r.Route("/policies", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/top", h.Top)
		r.Get("/categories", h.Categories)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Patch("/{id}/purchase", h.IncrementPurchase)
		})
	})

	r.Route("/quotes", func(r chi.Router) {
		r.Use(g.Require(middleware.Authenticated()))
		r.Post("/", h.CreateQuote)
		r.Get("/mine", h.MyQuotes)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 9),
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	params.Normalize()

	policies, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		ToPolicyResponseList(policies),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	n := core.QueryInt(r, "limit", DefaultTopLimit)

	policies, err := h.service.TopPurchased(r.Context(), n)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPolicyResponseList(policies))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, categories)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "policy")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPolicyResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToPolicyResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req PolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "policy")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPolicyResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "policy")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) IncrementPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.IncrementPurchaseCount(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "policy")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	q, err := h.service.Quote(r.Context(), middleware.GetEmail(r.Context()), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "policy")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, q)
}

func (h *Handler) MyQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.service.ListQuotes(
		r.Context(),
		middleware.GetEmail(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, quotes)
}
