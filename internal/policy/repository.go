// AngelaMos | 2026
// repository.go

package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Policy) error
	GetByID(ctx context.Context, id string) (*Policy, error)
	Update(ctx context.Context, p *Policy) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Policy, int, error)
	Categories(ctx context.Context) ([]string, error)
	TopPurchased(ctx context.Context, n int) ([]Policy, error)
	IncrementPurchaseCount(ctx context.Context, id string) error
	CreateQuote(ctx context.Context, q *Quote) error
	ListQuotes(ctx context.Context, customerEmail string) ([]Quote, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const policyColumns = `id, title, category, description, min_age, max_age,
		       coverage_min, coverage_max, duration_years, base_premium_rate,
		       image_url, purchase_count, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Policy) error {
	query := `
		INSERT INTO policies (id, title, category, description, min_age,
		                      max_age, coverage_min, coverage_max,
		                      duration_years, base_premium_rate, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING purchase_count, created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Title,
		p.Category,
		p.Description,
		p.MinAge,
		p.MaxAge,
		p.CoverageMin,
		p.CoverageMax,
		p.DurationYears,
		p.BasePremiumRate,
		p.ImageURL,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create policy: %w", core.ErrDuplicateKey)
		}
		if core.IsCheckViolation(err) {
			return fmt.Errorf("create policy: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create policy: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1`

	var p Policy
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, core.NoRows("get policy", err)
	}

	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Policy) error {
	query := `
		UPDATE policies
		SET title = $2, category = $3, description = $4, min_age = $5,
		    max_age = $6, coverage_min = $7, coverage_max = $8,
		    duration_years = $9, base_premium_rate = $10, image_url = $11,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING purchase_count, created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Title,
		p.Category,
		p.Description,
		p.MinAge,
		p.MaxAge,
		p.CoverageMin,
		p.CoverageMax,
		p.DurationYears,
		p.BasePremiumRate,
		p.ImageURL,
	)
	if core.IsCheckViolation(err) {
		return fmt.Errorf("update policy: %w", core.ErrInvalidInput)
	}
	if err != nil {
		return core.NoRows("update policy", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	err := core.ExecOne(ctx, r.db, "delete policy",
		`DELETE FROM policies WHERE id = $1`, id)
	if core.IsForeignKeyError(err) {
		return fmt.Errorf(
			"delete policy: referenced by applications: %w",
			core.ErrConflict,
		)
	}
	return err
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Policy, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM policies WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count policies: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM policies
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`,
		policyColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var policies []Policy
	if err := r.db.SelectContext(ctx, &policies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list policies: %w", err)
	}

	return policies, total, nil
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM policies ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// TopPurchased orders by purchase_count only. Ties come back in whatever
// order the planner produces and are not stable across calls.
func (r *repository) TopPurchased(ctx context.Context, n int) ([]Policy, error) {
	query := `SELECT ` + policyColumns + `
		FROM policies
		ORDER BY purchase_count DESC
		LIMIT $1`

	var policies []Policy
	if err := r.db.SelectContext(ctx, &policies, query, n); err != nil {
		return nil, fmt.Errorf("top purchased policies: %w", err)
	}
	return policies, nil
}

// IncrementPurchaseCount is a single UPDATE so concurrent purchases never
// lose an increment.
func (r *repository) IncrementPurchaseCount(ctx context.Context, id string) error {
	query := `
		UPDATE policies
		SET purchase_count = purchase_count + 1, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "increment purchase count", query, id)
}

func (r *repository) CreateQuote(ctx context.Context, q *Quote) error {
	query := `
		INSERT INTO quotes (id, customer_email, policy_id, age, coverage,
		                    duration_years, smoker, monthly_premium,
		                    annual_premium)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &q.CreatedAt, query,
		q.ID,
		q.CustomerEmail,
		q.PolicyID,
		q.Age,
		q.Coverage,
		q.DurationYears,
		q.Smoker,
		q.MonthlyPremium,
		q.AnnualPremium,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create quote: policy: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

func (r *repository) ListQuotes(
	ctx context.Context,
	customerEmail string,
) ([]Quote, error) {
	query := `
		SELECT id, customer_email, policy_id, age, coverage, duration_years,
		       smoker, monthly_premium, annual_premium, created_at
		FROM quotes
		WHERE customer_email = $1
		ORDER BY created_at DESC`

	var quotes []Quote
	if err := r.db.SelectContext(ctx, &quotes, query, customerEmail); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}
