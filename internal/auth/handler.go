// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/lifesure-api/internal/config"
	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookie    config.CookieConfig
}

func NewHandler(service *Service, cookie config.CookieConfig) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		cookie:    cookie,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, g *middleware.Guards) {
	r.Post("/jwt", h.Issue)

	r.Group(func(r chi.Router) {
		r.Use(g.Require(middleware.Authenticated()))
		r.Post("/logout", h.Logout)
		r.Get("/me", h.GetMe)
	})
}

func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	issued, role, err := h.service.IssueSession(r.Context(), req.Email)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(issued.Token, issued.ExpiresAt))

	core.OK(w, IssueResponse{
		Success:   true,
		Role:      role,
		ExpiresAt: issued.ExpiresAt,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := h.service.Logout(r.Context(), identity); err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", time.Unix(0, 0)))
	core.OK(w, map[string]bool{"success": true})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	me, err := h.service.CurrentUser(
		r.Context(),
		middleware.GetEmail(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, me)
}

// sessionCookie is never script readable. An empty value clears it.
func (h *Handler) sessionCookie(value string, expiresAt time.Time) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Seconds())
	if value == "" || maxAge <= 0 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
