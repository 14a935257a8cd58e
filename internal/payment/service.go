// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/lifesure-api/internal/application"
	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Applications interface {
	EnsurePayable(
		ctx context.Context,
		id string,
		customerEmail string,
	) (*application.Application, error)
	MarkPaid(
		ctx context.Context,
		id string,
		customerEmail string,
		in application.PaymentInput,
	) (*application.Application, *application.Payment, error)
	ListPayments(
		ctx context.Context,
		viewerEmail string,
		viewerRole string,
	) ([]application.Payment, error)
}

type Service struct {
	gateway      Gateway
	applications Applications
	currency     string
}

func NewService(gateway Gateway, applications Applications, currency string) *Service {
	return &Service{
		gateway:      gateway,
		applications: applications,
		currency:     strings.ToLower(currency),
	}
}

func (s *Service) CreateIntent(
	ctx context.Context,
	customerEmail string,
	req IntentRequest,
) (*IntentResponse, error) {
	if req.AmountCents <= 0 || req.AmountCents > maxAmountCents {
		return nil, fmt.Errorf("amount out of range: %w", core.ErrInvalidInput)
	}

	app, err := s.applications.EnsurePayable(ctx, req.ApplicationID, customerEmail)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateChargeIntent(ctx, ChargeRequest{
		AmountCents: req.AmountCents,
		Currency:    s.currency,
		Metadata: map[string]string{
			"application_id": app.ID,
			"policy_id":      app.PolicyID,
			"customer_email": app.CustomerEmail,
		},
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return &IntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  req.AmountCents,
		Currency:     s.currency,
	}, nil
}

// Complete marks the application paid once the client reports a confirmed
// intent. The processor is not consulted again.
func (s *Service) Complete(
	ctx context.Context,
	customerEmail string,
	req CompleteRequest,
) (*CompleteResponse, error) {
	app, rec, err := s.applications.MarkPaid(
		ctx,
		req.ApplicationID,
		customerEmail,
		application.PaymentInput{
			AmountCents:   req.AmountCents,
			Currency:      s.currency,
			TransactionID: strings.TrimSpace(req.TransactionID),
		},
	)
	if err != nil {
		return nil, err
	}

	return &CompleteResponse{
		Application: application.ToApplicationResponse(app),
		Payment:     rec,
	}, nil
}

func (s *Service) History(
	ctx context.Context,
	viewerEmail string,
	viewerRole string,
) ([]application.Payment, error) {
	return s.applications.ListPayments(ctx, viewerEmail, viewerRole)
}
