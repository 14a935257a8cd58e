// AngelaMos | 2026
// service_test.go

package agent

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type memRepo struct {
	apps map[string]*Application
}

func newMemRepo() *memRepo {
	return &memRepo{apps: map[string]*Application{}}
}

func (m *memRepo) Create(_ context.Context, a *Application) error {
	for _, existing := range m.apps {
		if existing.Email == a.Email {
			return core.ErrDuplicateKey
		}
	}
	cp := *a
	m.apps[a.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) SetStatus(_ context.Context, id string, status Status) error {
	a, ok := m.apps[id]
	if !ok {
		return core.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memRepo) List(_ context.Context, _ ListParams) ([]Application, int, error) {
	out := make([]Application, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, *a)
	}
	return out, len(out), nil
}

type fakeRoles struct {
	registered map[string]string
}

func (f *fakeRoles) PromoteToAgent(_ context.Context, email string) error {
	role, ok := f.registered[email]
	if !ok {
		return core.ErrNotFound
	}
	if role != middleware.RoleAdmin {
		f.registered[email] = middleware.RoleAgent
	}
	return nil
}

func TestApplyOncePerEmail(t *testing.T) {
	svc := NewService(newMemRepo(), &fakeRoles{})
	req := ApplyRequest{Name: "Bob", Experience: "5 years", Specialties: []string{" term ", ""}}

	a, err := svc.Apply(context.Background(), "Bob@LifeSure.test", req)
	require.NoError(t, err)
	assert.Equal(t, "bob@lifesure.test", a.Email)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, []string{"term"}, []string(a.Specialties))

	_, err = svc.Apply(context.Background(), "bob@lifesure.test", req)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestApprovePromotesUser(t *testing.T) {
	roles := &fakeRoles{registered: map[string]string{"bob@lifesure.test": "customer"}}
	svc := NewService(newMemRepo(), roles)

	a, err := svc.Apply(context.Background(), "bob@lifesure.test", ApplyRequest{Name: "Bob"})
	require.NoError(t, err)

	got, err := svc.Decide(context.Background(), a.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, middleware.RoleAgent, roles.registered["bob@lifesure.test"])
}

func TestApproveKeepsAdminRole(t *testing.T) {
	roles := &fakeRoles{registered: map[string]string{"root@lifesure.test": middleware.RoleAdmin}}
	svc := NewService(newMemRepo(), roles)

	a, err := svc.Apply(context.Background(), "root@lifesure.test", ApplyRequest{Name: "Root"})
	require.NoError(t, err)

	got, err := svc.Decide(context.Background(), a.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, middleware.RoleAdmin, roles.registered["root@lifesure.test"])
}

func TestApproveUnregisteredApplicant(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &fakeRoles{registered: map[string]string{}})

	a, err := svc.Apply(context.Background(), "ghost@lifesure.test", ApplyRequest{Name: "G"})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), a.ID, StatusApproved)
	assert.ErrorIs(t, err, core.ErrPrecondition)
	assert.Equal(t, StatusPending, repo.apps[a.ID].Status)
}

func TestRejectLeavesRole(t *testing.T) {
	roles := &fakeRoles{registered: map[string]string{"bob@lifesure.test": "customer"}}
	svc := NewService(newMemRepo(), roles)

	a, err := svc.Apply(context.Background(), "bob@lifesure.test", ApplyRequest{Name: "Bob"})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), a.ID, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, "customer", roles.registered["bob@lifesure.test"])

	_, err = svc.Decide(context.Background(), a.ID, StatusPending)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRepositoryMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(`INSERT INTO agent_applications`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), &Application{
		ID:     "8e5b2c1a-4f3d-4b6e-9a7c-1d2e3f4a5b6c",
		Email:  "bob@lifesure.test",
		Status: StatusPending,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
