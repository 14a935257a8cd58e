// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

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
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/{email}/role", h.GetRole)

		r.With(g.Require(middleware.Authenticated())).
			Patch("/login", h.TouchLogin)

		r.Group(func(r chi.Router) {
			r.Use(g.Require(
				middleware.Authenticated(),
				middleware.IsSelf("email"),
			))
			r.Get("/{email}", h.GetUser)
			r.Put("/{email}", h.UpdateUser)
		})
	})
}

// RegisterAdminRoutes registers admin-only user management endpoints.
func (h *Handler) RegisterAdminRoutes(r chi.Router, g *middleware.Guards) {
	adminOnly := g.Require(
		middleware.Authenticated(),
		middleware.HasRole(middleware.RoleAdmin),
	)

	r.With(adminOnly).Get("/agents", h.ListAgents)

	r.Route("/admin/users", func(r chi.Router) {
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Patch("/{userID}/role", h.UpdateUserRole)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.RoleOf(r.Context(), emailParam(r))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, RoleResponse{Role: role})
}

func (h *Handler) TouchLogin(w http.ResponseWriter, r *http.Request) {
	err := h.service.TouchLogin(r.Context(), middleware.GetEmail(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByEmail(r.Context(), emailParam(r))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), emailParam(r), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

// ListUsers returns a paginated list of users with optional filtering.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.ListAgents(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponseList(agents))
}

// UpdateUserRole changes a user's role (admin only).
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := core.IDParam(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), userID, req.Role)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func emailParam(r *http.Request) string {
	raw := chi.URLParam(r, "email")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
