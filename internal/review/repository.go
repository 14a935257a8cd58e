// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	Latest(ctx context.Context, policyID string, limit int) ([]Review, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	query := `
		INSERT INTO reviews (id, user_email, user_name, photo_url,
		                     policy_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &rv.CreatedAt, query,
		rv.ID,
		rv.UserEmail,
		rv.UserName,
		rv.PhotoURL,
		rv.PolicyID,
		rv.Rating,
		rv.Comment,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create review: policy: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// Latest returns the newest reviews, optionally for one policy.
func (r *repository) Latest(
	ctx context.Context,
	policyID string,
	limit int,
) ([]Review, error) {
	query := `
		SELECT id, user_email, user_name, photo_url, policy_id, rating,
		       comment, created_at
		FROM reviews`
	args := []any{limit}
	if policyID != "" {
		query += ` WHERE policy_id = $2`
		args = append(args, policyID)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	var reviews []Review
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
