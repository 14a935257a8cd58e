// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/lifesure-api/internal/application"
)

type Applications interface {
	ApprovedFor(
		ctx context.Context,
		customerEmail string,
		policyID string,
	) (*application.Application, error)
	MarkReviewSubmitted(ctx context.Context, id string) error
}

type Service struct {
	repo         Repository
	applications Applications
	logger       *slog.Logger
}

func NewService(repo Repository, applications Applications, logger *slog.Logger) *Service {
	return &Service{repo: repo, applications: applications, logger: logger}
}

// Create accepts one review per customer and policy, and only from a
// customer whose application for that policy was approved.
func (s *Service) Create(
	ctx context.Context,
	email string,
	req CreateRequest,
) (*Review, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	app, err := s.applications.ApprovedFor(ctx, email, req.PolicyID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	rv := &Review{
		ID:        uuid.New().String(),
		UserEmail: email,
		UserName:  strings.TrimSpace(req.UserName),
		PhotoURL:  req.PhotoURL,
		PolicyID:  req.PolicyID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	// The flag only drives the client's "review" prompt; the review row is
	// the source of truth.
	if err := s.applications.MarkReviewSubmitted(ctx, app.ID); err != nil {
		s.logger.WarnContext(ctx, "mark review submitted failed",
			"application_id", app.ID,
			"error", err,
		)
	}

	return rv, nil
}

func (s *Service) Latest(
	ctx context.Context,
	policyID string,
	limit int,
) ([]Review, error) {
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.Latest(ctx, policyID, limit)
}
