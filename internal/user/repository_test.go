// AngelaMos | 2026
// repository_test.go

package user

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

const userID = "3f1c9a2e-5b7d-4e0f-8a11-2c4d6e8f0a12"

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestUpdateNeverWritesRole(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(
		`UPDATE users\s+SET name = \$2, photo_url = \$3, profile = \$4, updated_at = NOW\(\)\s+WHERE id = \$1\s+RETURNING role, updated_at`,
	).
		WithArgs(userID, "Grace", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"role", "updated_at"}).
			AddRow(RoleCustomer, time.Now()))

	u := &User{
		ID:      userID,
		Name:    "Grace",
		Role:    RoleAdmin,
		Profile: core.JSONMap{},
	}
	require.NoError(t, repo.Update(context.Background(), u))
	assert.Equal(t, RoleCustomer, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRoleByIDIsSingleUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users\s+SET role = \$2, updated_at = NOW\(\)\s+WHERE id = \$1`).
		WithArgs(userID, RoleAgent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetRoleByID(context.Background(), userID, RoleAgent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRoleByIDUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(userID, RoleAgent).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRoleByID(context.Background(), userID, RoleAgent)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
