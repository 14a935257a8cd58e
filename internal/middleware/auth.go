// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

// Identity is what a verified session token proves: who the caller is.
// IssuedRole is informational only; authorization always re-resolves.
type Identity struct {
	Email      string
	IssuedRole string
	SessionID  string
	ExpiresAt  time.Time
}

type TokenVerifier interface {
	VerifySession(ctx context.Context, token string) (*Identity, error)
}

type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (string, error)
}

// Access is the per-request view a guard evaluates. The role is looked up at
// most once per request and only when a guard asks for it.
type Access struct {
	Identity *Identity

	resolver RoleResolver
	role     string
	resolved bool
}

func (a *Access) Authenticated() bool {
	return a.Identity != nil
}

func (a *Access) Role(ctx context.Context) (string, error) {
	if a.Identity == nil {
		return "", core.ErrUnauthorized
	}
	if a.resolved {
		return a.role, nil
	}

	role, err := a.resolver.ResolveRole(ctx, a.Identity.Email)
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}

	a.role = role
	a.resolved = true
	return role, nil
}

// Guard returns nil to allow. A denial wraps core.ErrUnauthorized or
// core.ErrForbidden; any other error is a server failure.
type Guard func(r *http.Request, a *Access) error

func Authenticated() Guard {
	return func(_ *http.Request, a *Access) error {
		if !a.Authenticated() {
			return core.ErrUnauthorized
		}
		return nil
	}
}

func HasRole(role string) Guard {
	return HasAnyRole(role)
}

func HasAnyRole(roles ...string) Guard {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(r *http.Request, a *Access) error {
		role, err := a.Role(r.Context())
		if err != nil {
			return err
		}
		if _, ok := allowed[role]; !ok {
			return core.ErrForbidden
		}
		return nil
	}
}

// IsSelf allows the request only when the email named by the URL parameter
// is the caller's own.
func IsSelf(param string) Guard {
	return func(r *http.Request, a *Access) error {
		if !a.Authenticated() {
			return core.ErrUnauthorized
		}

		target := chi.URLParam(r, param)
		if decoded, err := url.PathUnescape(target); err == nil {
			target = decoded
		}

		if target == "" || !strings.EqualFold(target, a.Identity.Email) {
			return core.ErrForbidden
		}
		return nil
	}
}

type Guards struct {
	verifier   TokenVerifier
	resolver   RoleResolver
	cookieName string
}

func NewGuards(
	verifier TokenVerifier,
	resolver RoleResolver,
	cookieName string,
) *Guards {
	return &Guards{
		verifier:   verifier,
		resolver:   resolver,
		cookieName: cookieName,
	}
}

// Require evaluates guards left to right and stops at the first denial.
func (g *Guards) Require(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, err := g.access(r)
			if err != nil {
				core.JSONError(w, err)
				return
			}

			for _, guard := range guards {
				if err := guard(r, access); err != nil {
					core.JSONError(w, err)
					return
				}
			}

			ctx := context.WithValue(r.Context(), AccessKey, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Guards) access(r *http.Request) (*Access, error) {
	access := &Access{resolver: g.resolver}

	token := ExtractToken(r, g.cookieName)
	if token == "" {
		return access, nil
	}

	identity, err := g.verifier.VerifySession(r.Context(), token)
	switch {
	case err == nil:
		access.Identity = identity
	case isTokenError(err):
		// anonymous; the guards decide whether that is acceptable
	default:
		return nil, err
	}

	return access, nil
}

func isTokenError(err error) bool {
	return errors.Is(err, core.ErrTokenInvalid) ||
		errors.Is(err, core.ErrTokenExpired) ||
		errors.Is(err, core.ErrTokenRevoked)
}

// ExtractToken reads the session cookie first and falls back to a bearer
// Authorization header.
func ExtractToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetAccess(ctx context.Context) *Access {
	if a, ok := ctx.Value(AccessKey).(*Access); ok {
		return a
	}
	return nil
}

func GetIdentity(ctx context.Context) *Identity {
	if a := GetAccess(ctx); a != nil {
		return a.Identity
	}
	return nil
}

func GetEmail(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.Email
	}
	return ""
}

// GetRole returns the role a guard already resolved for this request, or ""
// when none did.
func GetRole(ctx context.Context) string {
	if a := GetAccess(ctx); a != nil && a.resolved {
		return a.role
	}
	return ""
}

// CallerRole resolves the caller's role, reusing a guard's lookup if one ran.
func CallerRole(ctx context.Context) (string, error) {
	a := GetAccess(ctx)
	if a == nil {
		return "", core.ErrUnauthorized
	}
	return a.Role(ctx)
}
