// AngelaMos | 2026
// service.go

package claim

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/lifesure-api/internal/application"
	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

// ApplicationLookup reads an application without any visibility check.
type ApplicationLookup interface {
	Find(ctx context.Context, id string) (*application.Application, error)
}

type Service struct {
	repo         Repository
	applications ApplicationLookup
}

func NewService(repo Repository, applications ApplicationLookup) *Service {
	return &Service{repo: repo, applications: applications}
}

func missingFields(req SubmitRequest) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"application_id", req.ApplicationID},
		{"policy_id", req.PolicyID},
		{"policy_title", req.PolicyTitle},
		{"customer_email", req.CustomerEmail},
		{"reason", req.Reason},
		{"document_key", req.DocumentKey},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Submit files a claim. The referenced application is re-read from storage
// and must belong to the caller, cover the same policy and be both Approved
// and paid.
func (s *Service) Submit(
	ctx context.Context,
	callerEmail string,
	req SubmitRequest,
) (*Claim, error) {
	if missing := missingFields(req); len(missing) > 0 {
		return nil, core.ValidationError(
			"missing required fields: " + strings.Join(missing, ", "),
		)
	}

	if !strings.EqualFold(req.CustomerEmail, callerEmail) {
		return nil, fmt.Errorf(
			"submit claim: customer_email is not the caller: %w",
			core.ErrForbidden,
		)
	}

	app, err := s.applications.Find(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("submit claim: %w", err)
	}

	if !app.OwnedBy(callerEmail) {
		return nil, fmt.Errorf(
			"submit claim: application belongs to another customer: %w",
			core.ErrForbidden,
		)
	}
	if app.PolicyID != req.PolicyID {
		return nil, core.ValidationError(
			"policy_id does not match the application",
		)
	}
	if !app.ClaimEligible() {
		return nil, core.PreconditionError(fmt.Sprintf(
			"application must be Approved and paid (status %s, payment %s)",
			app.Status,
			app.PaymentStatus,
		))
	}

	c := &Claim{
		ID:            uuid.New().String(),
		ApplicationID: app.ID,
		PolicyID:      app.PolicyID,
		PolicyTitle:   strings.TrimSpace(req.PolicyTitle),
		CustomerEmail: app.CustomerEmail,
		Reason:        strings.TrimSpace(req.Reason),
		DocumentKey:   req.DocumentKey,
		Status:        StatusPending,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "claim.submitted",
		attribute.String("claim.id", c.ID),
		attribute.String("application.id", c.ApplicationID),
	)

	return c, nil
}

// UpdateStatus applies no transition rules; any valid status may follow any
// other.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id string,
	status Status,
) (*Claim, error) {
	if !status.Valid() {
		return nil, fmt.Errorf(
			"claim status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "claim.status_changed",
		attribute.String("claim.id", id),
		attribute.String("claim.status", string(status)),
	)

	return s.repo.GetByID(ctx, id)
}

// Get is visible to the filing customer, agents and admins.
func (s *Service) Get(
	ctx context.Context,
	id string,
	viewerEmail string,
	viewerRole string,
) (*Claim, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case c.OwnedBy(viewerEmail),
		viewerRole == middleware.RoleAgent,
		viewerRole == middleware.RoleAdmin:
		return c, nil
	}

	return nil, fmt.Errorf("get claim: %w", core.ErrForbidden)
}

func (s *Service) ListForCustomer(ctx context.Context, email string) ([]Claim, error) {
	return s.repo.ListByCustomer(ctx, strings.ToLower(email))
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListParams,
) ([]Claim, int, error) {
	params.Normalize()
	if params.Status != "" && !Status(params.Status).Valid() {
		return nil, 0, fmt.Errorf(
			"unknown status %q: %w",
			params.Status,
			core.ErrInvalidInput,
		)
	}
	return s.repo.List(ctx, params)
}

func (s *Service) StatusCounts(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}
