// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/lifesure-api/internal/auth"
	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer. Registration is password-less; identity is
// proven later through the session token.
func (s *Service) Register(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	profile := req.Profile
	if profile == nil {
		profile = core.JSONMap{}
	}

	user := &User{
		ID:       uuid.New().String(),
		Email:    normalizeEmail(req.Email),
		Name:     strings.TrimSpace(req.Name),
		PhotoURL: req.PhotoURL,
		Role:     RoleCustomer,
		Profile:  profile,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) FindByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return &auth.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		PhotoURL: user.PhotoURL,
		Role:     user.Role,
	}, nil
}

// RoleOf answers the public role lookup. Unknown emails are customers.
func (s *Service) RoleOf(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, core.ErrNotFound) {
		return RoleCustomer, nil
	}
	if err != nil {
		return "", err
	}
	if user.Role == "" {
		return RoleCustomer, nil
	}
	return user.Role, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	email string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Profile != nil {
		if user.Profile == nil {
			user.Profile = core.JSONMap{}
		}
		for k, v := range req.Profile {
			user.Profile[k] = v
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) TouchLogin(ctx context.Context, email string) error {
	return s.repo.TouchLogin(ctx, normalizeEmail(email))
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) ListAgents(ctx context.Context) ([]User, error) {
	return s.repo.ListByRole(ctx, RoleAgent)
}

// UpdateUserRole takes effect on the caller's next request because roles
// are never read from the token.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.SetRoleByID(ctx, id, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// PromoteToAgent grants the agent role to a registered user. Admins keep
// their role.
func (s *Service) PromoteToAgent(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return nil
	}
	return s.repo.SetRole(ctx, user.Email, RoleAgent)
}

var _ auth.UserProvider = (*Service)(nil)
