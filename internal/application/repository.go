// AngelaMos | 2026
// repository.go

package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	GetForUpdate(ctx context.Context, id string) (*Application, error)
	AssignAgent(ctx context.Context, id, agentEmail string) error
	Decide(ctx context.Context, id string, status Status, onlyPending bool) error
	SetPaymentDue(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string) (bool, error)
	MarkReviewSubmitted(ctx context.Context, id string) error
	ListByCustomer(ctx context.Context, email string) ([]Application, error)
	ListByAgent(ctx context.Context, email string) ([]Application, error)
	List(ctx context.Context, params ListParams) ([]Application, int, error)
	CreatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, customerEmail string) ([]Payment, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const applicationColumns = `id, customer_email, customer_name, policy_id,
		       status, assigned_agent, payment_status, review_submitted,
		       details, decided_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (id, customer_email, customer_name,
		                          policy_id, status, payment_status, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, app, query,
		app.ID,
		app.CustomerEmail,
		app.CustomerName,
		app.PolicyID,
		app.Status,
		app.PaymentStatus,
		app.Details,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create application: policy: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	var app Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, core.NoRows("get application", err)
	}

	return &app, nil
}

// GetForUpdate locks the row for the rest of the enclosing transaction.
func (r *repository) GetForUpdate(
	ctx context.Context,
	id string,
) (*Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE id = $1
		FOR UPDATE`

	var app Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, core.NoRows("lock application", err)
	}

	return &app, nil
}

func (r *repository) AssignAgent(ctx context.Context, id, agentEmail string) error {
	query := `
		UPDATE applications
		SET assigned_agent = $2, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "assign agent", query, id, agentEmail)
}

func (r *repository) Decide(
	ctx context.Context,
	id string,
	status Status,
	onlyPending bool,
) error {
	query := `
		UPDATE applications
		SET status = $2, decided_at = NOW(), updated_at = NOW()
		WHERE id = $1`
	if onlyPending {
		query += ` AND status = 'Pending'`
	}

	return core.ExecOne(ctx, r.db, "decide application", query, id, status)
}

func (r *repository) SetPaymentDue(ctx context.Context, id string) error {
	query := `
		UPDATE applications
		SET payment_status = 'due', updated_at = NOW()
		WHERE id = $1 AND payment_status <> 'paid'`

	return core.ExecOne(ctx, r.db, "mark payment due", query, id)
}

// MarkPaid reports whether this call moved the row onto paid. A row that
// was already paid is left alone and reports false.
func (r *repository) MarkPaid(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE applications
		SET payment_status = 'paid', updated_at = NOW()
		WHERE id = $1 AND payment_status <> 'paid'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) MarkReviewSubmitted(ctx context.Context, id string) error {
	query := `
		UPDATE applications
		SET review_submitted = TRUE, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "mark review submitted", query, id)
}

func (r *repository) ListByCustomer(
	ctx context.Context,
	email string,
) ([]Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE customer_email = $1
		ORDER BY created_at DESC`

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query, email); err != nil {
		return nil, fmt.Errorf("list customer applications: %w", err)
	}
	return apps, nil
}

func (r *repository) ListByAgent(
	ctx context.Context,
	email string,
) ([]Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE assigned_agent = $1
		ORDER BY created_at DESC`

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query, email); err != nil {
		return nil, fmt.Errorf("list agent applications: %w", err)
	}
	return apps, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Application, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM applications WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM applications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		applicationColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return apps, total, nil
}

func (r *repository) CreatePayment(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, application_id, customer_email, policy_id,
		                      amount_cents, currency, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &p.CreatedAt, query,
		p.ID,
		p.ApplicationID,
		p.CustomerEmail,
		p.PolicyID,
		p.AmountCents,
		p.Currency,
		p.TransactionID,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("record payment: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

// ListPayments returns every payment when customerEmail is empty.
func (r *repository) ListPayments(
	ctx context.Context,
	customerEmail string,
) ([]Payment, error) {
	query := `
		SELECT id, application_id, customer_email, policy_id, amount_cents,
		       currency, transaction_id, created_at
		FROM payments`
	var args []any
	if customerEmail != "" {
		query += ` WHERE customer_email = $1`
		args = append(args, customerEmail)
	}
	query += ` ORDER BY created_at DESC`

	var payments []Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) AS n FROM applications GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
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
