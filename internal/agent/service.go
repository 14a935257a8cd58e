// AngelaMos | 2026
// service.go

package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type RoleSetter interface {
	PromoteToAgent(ctx context.Context, email string) error
}

type Service struct {
	repo  Repository
	roles RoleSetter
}

func NewService(repo Repository, roles RoleSetter) *Service {
	return &Service{repo: repo, roles: roles}
}

func (s *Service) Apply(
	ctx context.Context,
	email string,
	req ApplyRequest,
) (*Application, error) {
	specialties := make([]string, 0, len(req.Specialties))
	for _, sp := range req.Specialties {
		if sp = strings.TrimSpace(sp); sp != "" {
			specialties = append(specialties, sp)
		}
	}

	a := &Application{
		ID:          uuid.New().String(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Name:        strings.TrimSpace(req.Name),
		Experience:  strings.TrimSpace(req.Experience),
		Specialties: specialties,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Application, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// Decide promotes the applicant before recording the decision, so an
// Approved row always means the role change went through. An admin applicant
// keeps the admin role. Rejection leaves the user's current role alone.
func (s *Service) Decide(
	ctx context.Context,
	id string,
	status Status,
) (*Application, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, fmt.Errorf(
			"decide agent application: %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == StatusApproved {
		err := s.roles.PromoteToAgent(ctx, a.Email)
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.PreconditionError(
				"applicant has not registered a user account",
			)
		}
		if err != nil {
			return nil, fmt.Errorf("promote agent: %w", err)
		}
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	a.Status = status
	return a, nil
}
