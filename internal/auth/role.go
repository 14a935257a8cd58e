// AngelaMos | 2026
// role.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type UserInfo struct {
	ID       string
	Email    string
	Name     string
	PhotoURL string
	Role     string
}

// UserProvider returns core.ErrNotFound when no user has the email.
type UserProvider interface {
	FindByEmail(ctx context.Context, email string) (*UserInfo, error)
}

// RoleResolver reads the caller's role from storage on every call. A caller
// with no stored user is a customer.
type RoleResolver struct {
	users UserProvider
}

func NewRoleResolver(users UserProvider) *RoleResolver {
	return &RoleResolver{users: users}
}

func (r *RoleResolver) ResolveRole(
	ctx context.Context,
	email string,
) (string, error) {
	user, err := r.users.FindByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, core.ErrNotFound) {
		return middleware.RoleCustomer, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}

	if user.Role == "" {
		return middleware.RoleCustomer, nil
	}
	return user.Role, nil
}

var _ middleware.RoleResolver = (*RoleResolver)(nil)
