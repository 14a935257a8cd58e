// AngelaMos | 2026
// repository_test.go

package application

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/lifesure-api/internal/core"
)

const appID = "3c0f5a52-9d7e-4d3b-8a43-5b1e2f7c9d01"

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func applicationRow(status Status, payment PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "customer_email", "customer_name", "policy_id", "status",
		"assigned_agent", "payment_status", "review_submitted", "details",
		"decided_at", "created_at", "updated_at",
	}).AddRow(
		appID, customer, "Alice", policyID, string(status),
		nil, string(payment), false, []byte(`{}`),
		nil, now, now,
	)
}

func TestMarkPaidIsConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE applications\s+SET payment_status = 'paid'.*payment_status <> 'paid'`).
		WithArgs(appID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkPaid(context.Background(), appID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideOnlyPendingAddsStatusCondition(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`WHERE id = \$1 AND status = 'Pending'`).
		WithArgs(appID, StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Decide(context.Background(), appID, StatusApproved, true)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newTxService(db *sqlx.DB) *Service {
	return NewService(
		NewRepository(db),
		NewUnitOfWork(&core.Database{DB: db}),
		fakePolicies{},
		fakeRoles{},
		true,
	)
}

func TestMarkPaidCommitsPaymentAndCounterTogether(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTxService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM applications\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(appID).
		WillReturnRows(applicationRow(StatusApproved, PaymentDue))
	mock.ExpectExec(`UPDATE applications\s+SET payment_status = 'paid'`).
		WithArgs(appID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE policies\s+SET purchase_count = purchase_count \+ 1`).
		WithArgs(policyID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app, rec, err := svc.MarkPaid(context.Background(), appID, customer, payment("pi_1"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, PaymentPaid, app.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidReplaySkipsPaymentAndCounter(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTxService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(appID).
		WillReturnRows(applicationRow(StatusApproved, PaymentPaid))
	mock.ExpectExec(`UPDATE applications\s+SET payment_status = 'paid'`).
		WithArgs(appID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, rec, err := svc.MarkPaid(context.Background(), appID, customer, payment("pi_1"))
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidRollsBackWhenCounterFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTxService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(appID).
		WillReturnRows(applicationRow(StatusApproved, PaymentDue))
	mock.ExpectExec(`UPDATE applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE policies`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := svc.MarkPaid(context.Background(), appID, customer, payment("pi_1"))
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
