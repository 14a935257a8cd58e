// AngelaMos | 2026
// repository.go

package agent

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	SetStatus(ctx context.Context, id string, status Status) error
	List(ctx context.Context, params ListParams) ([]Application, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Application) error {
	query := `
		INSERT INTO agent_applications (id, email, name, experience,
		                                specialties, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, a, query,
		a.ID,
		a.Email,
		a.Name,
		a.Experience,
		a.Specialties,
		a.Status,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create agent application: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create agent application: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Application, error) {
	query := `
		SELECT id, email, name, experience, specialties, status,
		       created_at, updated_at
		FROM agent_applications
		WHERE id = $1`

	var a Application
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, core.NoRows("get agent application", err)
	}
	return &a, nil
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status) error {
	query := `
		UPDATE agent_applications
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "set agent application status", query, id, status)
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Application, int, error) {
	params.Normalize()

	where := "TRUE"
	var args []any
	if params.Status != "" {
		where = "status = $1"
		args = append(args, params.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM agent_applications WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count agent applications: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT id, email, name, experience, specialties, status,
		       created_at, updated_at
		FROM agent_applications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)

	args = append(args, params.PageSize, params.Offset())

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list agent applications: %w", err)
	}

	return apps, total, nil
}
