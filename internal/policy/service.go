// AngelaMos | 2026
// service.go

package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

const maxTopLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Policy, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Policy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) TopPurchased(ctx context.Context, n int) ([]Policy, error) {
	if n < 1 {
		n = DefaultTopLimit
	}
	if n > maxTopLimit {
		n = maxTopLimit
	}
	return s.repo.TopPurchased(ctx, n)
}

func (s *Service) IncrementPurchaseCount(ctx context.Context, id string) error {
	return s.repo.IncrementPurchaseCount(ctx, id)
}

func (s *Service) Create(ctx context.Context, req PolicyRequest) (*Policy, error) {
	if err := validateBounds(req); err != nil {
		return nil, err
	}

	p := &Policy{ID: uuid.New().String()}
	applyRequest(p, req)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req PolicyRequest,
) (*Policy, error) {
	if err := validateBounds(req); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyRequest(p, req)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Quote(
	ctx context.Context,
	customerEmail string,
	req QuoteRequest,
) (*Quote, error) {
	p, err := s.repo.GetByID(ctx, req.PolicyID)
	if err != nil {
		return nil, err
	}

	switch {
	case !p.AcceptsAge(req.Age):
		return nil, fmt.Errorf(
			"quote: age %d outside %d-%d: %w",
			req.Age, p.MinAge, p.MaxAge, core.ErrInvalidInput,
		)
	case !p.AcceptsCoverage(req.Coverage):
		return nil, fmt.Errorf(
			"quote: coverage %d outside %d-%d: %w",
			req.Coverage, p.CoverageMin, p.CoverageMax, core.ErrInvalidInput,
		)
	case !p.OffersTerm(req.DurationYears):
		return nil, fmt.Errorf(
			"quote: term of %d years not offered: %w",
			req.DurationYears, core.ErrInvalidInput,
		)
	}

	monthly, annual := EstimatePremium(
		p,
		req.Age,
		req.Coverage,
		req.DurationYears,
		req.Smoker,
	)

	q := &Quote{
		ID:             uuid.New().String(),
		CustomerEmail:  strings.ToLower(customerEmail),
		PolicyID:       p.ID,
		Age:            req.Age,
		Coverage:       req.Coverage,
		DurationYears:  req.DurationYears,
		Smoker:         req.Smoker,
		MonthlyPremium: monthly,
		AnnualPremium:  annual,
	}

	if err := s.repo.CreateQuote(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) ListQuotes(ctx context.Context, email string) ([]Quote, error) {
	return s.repo.ListQuotes(ctx, strings.ToLower(email))
}

func validateBounds(req PolicyRequest) error {
	if req.MaxAge < req.MinAge {
		return fmt.Errorf("max_age below min_age: %w", core.ErrInvalidInput)
	}
	if req.CoverageMax < req.CoverageMin {
		return fmt.Errorf(
			"coverage_max below coverage_min: %w",
			core.ErrInvalidInput,
		)
	}
	return nil
}

func applyRequest(p *Policy, req PolicyRequest) {
	p.Title = strings.TrimSpace(req.Title)
	p.Category = strings.TrimSpace(req.Category)
	p.Description = req.Description
	p.MinAge = req.MinAge
	p.MaxAge = req.MaxAge
	p.CoverageMin = req.CoverageMin
	p.CoverageMax = req.CoverageMax
	p.DurationYears = req.DurationYears
	p.BasePremiumRate = req.BasePremiumRate
	p.ImageURL = req.ImageURL
}
