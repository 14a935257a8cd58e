// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetRole(ctx context.Context, email, role string) error
	SetRoleByID(ctx context.Context, id, role string) error
	TouchLogin(ctx context.Context, email string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, name, photo_url, role, profile,
		       last_login_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, name, photo_url, role, profile)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.Name,
		user.PhotoURL,
		user.Role,
		user.Profile,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, core.NoRows("get user", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, core.NoRows("get user by email", err)
	}

	return &user, nil
}

// Update writes the self-service profile fields only. The role column is
// owned by SetRole and SetRoleByID; the stored role is read back into user.
func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, photo_url = $3, profile = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING role, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Name,
		user.PhotoURL,
		user.Profile,
	)
	if err != nil {
		return core.NoRows("update user", err)
	}

	return nil
}

func (r *repository) SetRole(ctx context.Context, email, role string) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE email = $1`

	return core.ExecOne(ctx, r.db, "set role", query, email, role)
}

func (r *repository) SetRoleByID(ctx context.Context, id, role string) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "set role by id", query, id, role)
}

func (r *repository) TouchLogin(ctx context.Context, email string) error {
	query := `
		UPDATE users
		SET last_login_at = NOW()
		WHERE email = $1`

	return core.ExecOne(ctx, r.db, "touch login", query, email)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ListByRole(ctx context.Context, role string) ([]User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = $1
		ORDER BY name`

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}

	return users, nil
}
