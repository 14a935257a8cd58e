// AngelaMos | 2026
// service_test.go

package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*User{}}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return core.ErrDuplicateKey
	}
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[u.Email]
	if !ok {
		return core.ErrNotFound
	}
	stored.Name = u.Name
	stored.PhotoURL = u.PhotoURL
	stored.Profile = u.Profile
	u.Role = stored.Role
	return nil
}

func (m *memRepo) SetRoleByID(_ context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memRepo) SetRole(_ context.Context, email, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return core.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memRepo) TouchLogin(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; !ok {
		return core.ErrNotFound
	}
	return nil
}

func (m *memRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memRepo) ListByRole(_ context.Context, role string) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func TestRegisterCreatesCustomerAndRejectsDuplicate(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, CreateUserRequest{
		Email: "Alice@LifeSure.test",
		Name:  "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@lifesure.test", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.NotNil(t, u.Profile)

	_, err = svc.Register(ctx, CreateUserRequest{
		Email: "alice@lifesure.test",
		Name:  "Alice Again",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRoleOfDefaultsToCustomer(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	role, err := svc.RoleOf(ctx, "ghost@lifesure.test")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	_, err = svc.Register(ctx, CreateUserRequest{Email: "b@lifesure.test", Name: "B"})
	require.NoError(t, err)
	require.NoError(t, svc.PromoteToAgent(ctx, "B@lifesure.test"))

	role, err = svc.RoleOf(ctx, "b@lifesure.test")
	require.NoError(t, err)
	assert.Equal(t, RoleAgent, role)
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.UpdateUserRole(context.Background(), "any", "superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateProfileMergesExtensionBag(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, CreateUserRequest{
		Email:   "c@lifesure.test",
		Name:    "C",
		Profile: core.JSONMap{"phone": "555-0100"},
	})
	require.NoError(t, err)

	name := "Carol"
	u, err := svc.UpdateProfile(ctx, "c@lifesure.test", UpdateUserRequest{
		Name:    &name,
		Profile: core.JSONMap{"address": "1 Main St"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", u.Name)
	assert.Equal(t, "555-0100", u.Profile["phone"])
	assert.Equal(t, "1 Main St", u.Profile["address"])
}

// demotingRepo changes the stored role between the profile read and the
// profile write, the way a concurrent admin request would.
type demotingRepo struct {
	*memRepo
	once sync.Once
	role string
}

func (d *demotingRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := d.memRepo.GetByEmail(ctx, email)
	if err == nil {
		d.once.Do(func() {
			_ = d.memRepo.SetRole(ctx, email, d.role)
		})
	}
	return u, err
}

func TestUpdateProfileKeepsConcurrentRoleChange(t *testing.T) {
	repo := &demotingRepo{memRepo: newMemRepo(), role: RoleCustomer}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, CreateUserRequest{Email: "e@lifesure.test", Name: "E"})
	require.NoError(t, err)
	require.NoError(t, repo.memRepo.SetRole(ctx, "e@lifesure.test", RoleAdmin))

	name := "Eve"
	u, err := svc.UpdateProfile(ctx, "e@lifesure.test", UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, u.Role)

	role, err := svc.RoleOf(ctx, "e@lifesure.test")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)
}

func TestUpdateUserRoleWritesOnlyRole(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, CreateUserRequest{Email: "f@lifesure.test", Name: "F"})
	require.NoError(t, err)

	u, err := svc.UpdateUserRole(ctx, created.ID, RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, RoleAgent, u.Role)
	assert.Equal(t, "F", u.Name)

	_, err = svc.UpdateUserRole(ctx, "00000000-0000-0000-0000-000000000000", RoleAgent)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegisterHandlerReturnsConflictOnDuplicate(t *testing.T) {
	h := NewHandler(NewService(newMemRepo()))
	r := chi.NewRouter()
	r.Post("/users", h.Register)
	r.Get("/users/{email}/role", h.GetRole)

	body := func() *bytes.Reader {
		b, _ := json.Marshal(CreateUserRequest{Email: "d@lifesure.test", Name: "D"})
		return bytes.NewReader(b)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", body()))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", body()))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/users/nobody@lifesure.test/role", nil,
	))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"`+middleware.RoleCustomer+`"`)
}

func TestUpdateUserRoleHandlerRejectsMalformedID(t *testing.T) {
	h := NewHandler(NewService(newMemRepo()))
	r := chi.NewRouter()
	r.Patch("/admin/users/{userID}/role", h.UpdateUserRole)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPatch,
		"/admin/users/not-a-uuid/role",
		bytes.NewReader([]byte(`{"role":"agent"}`)),
	))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPatch,
		"/admin/users/00000000-0000-0000-0000-000000000000/role",
		bytes.NewReader([]byte(`{"role":"agent"}`)),
	))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromoteToAgentKeepsAdmin(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, CreateUserRequest{Email: "root@lifesure.test", Name: "Root"})
	require.NoError(t, err)
	require.NoError(t, repo.SetRole(ctx, "root@lifesure.test", RoleAdmin))

	require.NoError(t, svc.PromoteToAgent(ctx, "root@lifesure.test"))

	role, err := svc.RoleOf(ctx, "root@lifesure.test")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestPromoteToAgentUnknownUser(t *testing.T) {
	err := NewService(newMemRepo()).PromoteToAgent(context.Background(), "ghost@lifesure.test")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
