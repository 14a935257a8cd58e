// AngelaMos | 2026
// repository.go

package claim

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id string) (*Claim, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	ListByCustomer(ctx context.Context, email string) ([]Claim, error)
	List(ctx context.Context, params ListParams) ([]Claim, int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const claimColumns = `id, application_id, policy_id, policy_title,
		       customer_email, reason, document_key, status,
		       submitted_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Claim) error {
	query := `
		INSERT INTO claims (id, application_id, policy_id, policy_title,
		                    customer_email, reason, document_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING submitted_at, updated_at`

	err := r.db.GetContext(ctx, c, query,
		c.ID,
		c.ApplicationID,
		c.PolicyID,
		c.PolicyTitle,
		c.CustomerEmail,
		c.Reason,
		c.DocumentKey,
		c.Status,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create claim: application: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create claim: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	var c Claim
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, core.NoRows("get claim", err)
	}

	return &c, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	status Status,
) error {
	query := `
		UPDATE claims
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "update claim status", query, id, status)
}

func (r *repository) ListByCustomer(
	ctx context.Context,
	email string,
) ([]Claim, error) {
	query := `SELECT ` + claimColumns + `
		FROM claims
		WHERE customer_email = $1
		ORDER BY submitted_at DESC`

	var claims []Claim
	if err := r.db.SelectContext(ctx, &claims, query, email); err != nil {
		return nil, fmt.Errorf("list customer claims: %w", err)
	}
	return claims, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Claim, int, error) {
	params.Normalize()

	where := "TRUE"
	var args []any
	if params.Status != "" {
		where = "status = $1"
		args = append(args, params.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM claims WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s
		FROM claims
		WHERE %s
		ORDER BY submitted_at DESC
		LIMIT $%d OFFSET $%d`,
		claimColumns, where, n+1, n+2)

	args = append(args, params.PageSize, params.Offset())

	var claims []Claim
	if err := r.db.SelectContext(ctx, &claims, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}

	return claims, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) AS n FROM claims GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count claims by status: %w", err)
	}

	counts := map[string]int{
		string(StatusPending):  0,
		string(StatusApproved): 0,
		string(StatusRejected): 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}
