// AngelaMos | 2026
// service.go

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
	"github.com/carterperez-dev/lifesure-api/internal/policy"
)

type PolicyLookup interface {
	Get(ctx context.Context, id string) (*policy.Policy, error)
}

type Service struct {
	repo            Repository
	uow             UnitOfWork
	policies        PolicyLookup
	roles           middleware.RoleResolver
	allowRedecision bool
}

func NewService(
	repo Repository,
	uow UnitOfWork,
	policies PolicyLookup,
	roles middleware.RoleResolver,
	allowRedecision bool,
) *Service {
	return &Service{
		repo:            repo,
		uow:             uow,
		policies:        policies,
		roles:           roles,
		allowRedecision: allowRedecision,
	}
}

func (s *Service) Submit(
	ctx context.Context,
	customerEmail string,
	req SubmitRequest,
) (*Application, error) {
	if _, err := s.policies.Get(ctx, req.PolicyID); err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	details := req.Details
	if details == nil {
		details = core.JSONMap{}
	}

	app := &Application{
		ID:            uuid.New().String(),
		CustomerEmail: strings.ToLower(strings.TrimSpace(customerEmail)),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		PolicyID:      req.PolicyID,
		Status:        StatusPending,
		PaymentStatus: PaymentUnset,
		Details:       details,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "application.submitted",
		attribute.String("application.id", app.ID),
		attribute.String("policy.id", app.PolicyID),
	)

	return app, nil
}

// AssignAgent may run at any status and re-assigning the same agent is a
// no-op in effect.
func (s *Service) AssignAgent(
	ctx context.Context,
	id string,
	agentEmail string,
) (*Application, error) {
	agentEmail = strings.ToLower(strings.TrimSpace(agentEmail))

	role, err := s.roles.ResolveRole(ctx, agentEmail)
	if err != nil {
		return nil, fmt.Errorf("assign agent: %w", err)
	}
	if role != middleware.RoleAgent {
		return nil, fmt.Errorf(
			"assign agent: %s is not an agent: %w",
			agentEmail,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.AssignAgent(ctx, id, agentEmail); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "application.agent_assigned",
		attribute.String("application.id", id),
	)

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Decide(
	ctx context.Context,
	id string,
	status Status,
) (*Application, error) {
	if !status.Decision() {
		return nil, fmt.Errorf(
			"decide: %q is not a decision: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := app.checkDecision(s.allowRedecision); err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}

	err = s.repo.Decide(ctx, id, status, !s.allowRedecision)
	if err != nil {
		// Another admin decided between our read and write.
		if errors.Is(err, core.ErrNotFound) && !s.allowRedecision {
			return nil, fmt.Errorf("decide: already decided: %w", core.ErrConflict)
		}
		return nil, err
	}

	core.AddSpanEvent(ctx, "application.decided",
		attribute.String("application.id", id),
		attribute.String("application.status", string(status)),
	)

	return s.repo.GetByID(ctx, id)
}

func (s *Service) MarkPaymentDue(
	ctx context.Context,
	id string,
	agentEmail string,
) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := app.checkPaymentDue(agentEmail); err != nil {
		return nil, fmt.Errorf("mark payment due: %w", err)
	}

	if err := s.repo.SetPaymentDue(ctx, id); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "application.payment_due",
		attribute.String("application.id", id),
	)

	app.PaymentStatus = PaymentDue
	return app, nil
}

// EnsurePayable is checked before a payment intent is opened so the
// customer is never charged for an application that cannot be paid.
func (s *Service) EnsurePayable(
	ctx context.Context,
	id string,
	customerEmail string,
) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := app.checkPayable(customerEmail); err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	if app.PaymentStatus == PaymentPaid {
		return nil, fmt.Errorf("payment: already paid: %w", core.ErrPrecondition)
	}
	return app, nil
}

// MarkPaid records the payment and bumps the policy purchase counter in the
// same transaction. Only the first transition onto paid does either; a
// replay returns the application unchanged and a nil payment.
func (s *Service) MarkPaid(
	ctx context.Context,
	id string,
	customerEmail string,
	in PaymentInput,
) (*Application, *Payment, error) {
	ctx, span := core.StartSpan(ctx, "application.MarkPaid",
		attribute.String("application.id", id),
	)
	defer span.End()

	var (
		app     *Application
		payment *Payment
	)

	err := s.uow.Do(ctx, func(repo Repository, counter PurchaseCounter) error {
		locked, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := locked.checkPayable(customerEmail); err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}

		changed, err := repo.MarkPaid(ctx, id)
		if err != nil {
			return err
		}
		locked.PaymentStatus = PaymentPaid
		app = locked

		if !changed {
			return nil
		}

		payment = &Payment{
			ID:            uuid.New().String(),
			ApplicationID: locked.ID,
			CustomerEmail: locked.CustomerEmail,
			PolicyID:      locked.PolicyID,
			AmountCents:   in.AmountCents,
			Currency:      in.Currency,
			TransactionID: in.TransactionID,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		return counter.IncrementPurchaseCount(ctx, locked.PolicyID)
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, nil, err
	}

	if payment != nil {
		core.AddSpanEvent(ctx, "application.paid",
			attribute.String("application.id", app.ID),
			attribute.String("payment.transaction_id", payment.TransactionID),
		)
	}

	return app, payment, nil
}

// Get is visible to the owner, the assigned agent and admins.
func (s *Service) Get(
	ctx context.Context,
	id string,
	viewerEmail string,
	viewerRole string,
) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerRole == middleware.RoleAdmin ||
		app.OwnedBy(viewerEmail) ||
		app.AssignedTo(viewerEmail) {
		return app, nil
	}

	return nil, fmt.Errorf("get application: %w", core.ErrForbidden)
}

// Find returns the application with no visibility check. Callers apply
// their own ownership rules.
func (s *Service) Find(ctx context.Context, id string) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

// ApprovedFor returns the caller's Approved application for policyID.
func (s *Service) ApprovedFor(
	ctx context.Context,
	customerEmail string,
	policyID string,
) (*Application, error) {
	apps, err := s.repo.ListByCustomer(ctx, strings.ToLower(customerEmail))
	if err != nil {
		return nil, err
	}

	for i := range apps {
		if apps[i].PolicyID == policyID && apps[i].Status == StatusApproved {
			return &apps[i], nil
		}
	}

	return nil, fmt.Errorf(
		"no approved application for policy: %w",
		core.ErrPrecondition,
	)
}

func (s *Service) MarkReviewSubmitted(ctx context.Context, id string) error {
	return s.repo.MarkReviewSubmitted(ctx, id)
}

func (s *Service) ListForCustomer(
	ctx context.Context,
	email string,
) ([]Application, error) {
	return s.repo.ListByCustomer(ctx, strings.ToLower(email))
}

func (s *Service) ListForAgent(
	ctx context.Context,
	agentEmail string,
) ([]Application, error) {
	return s.repo.ListByAgent(ctx, strings.ToLower(agentEmail))
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListParams,
) ([]Application, int, error) {
	params.Normalize()
	if params.Status != "" && !Status(params.Status).Decision() &&
		Status(params.Status) != StatusPending {
		return nil, 0, fmt.Errorf(
			"unknown status %q: %w",
			params.Status,
			core.ErrInvalidInput,
		)
	}
	return s.repo.List(ctx, params)
}

// ListPayments returns the viewer's own payments, or every payment for
// admins.
func (s *Service) ListPayments(
	ctx context.Context,
	viewerEmail string,
	viewerRole string,
) ([]Payment, error) {
	if viewerRole == middleware.RoleAdmin {
		return s.repo.ListPayments(ctx, "")
	}
	return s.repo.ListPayments(ctx, strings.ToLower(viewerEmail))
}

func (s *Service) StatusCounts(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}
