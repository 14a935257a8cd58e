// AngelaMos | 2026
// service_test.go

package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
	"github.com/carterperez-dev/lifesure-api/internal/policy"
)

type memRepo struct {
	mu       sync.Mutex
	apps     map[string]*Application
	payments []Payment
}

func newMemRepo() *memRepo {
	return &memRepo{apps: map[string]*Application{}}
}

func (m *memRepo) snapshot() (map[string]Application, []Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apps := make(map[string]Application, len(m.apps))
	for id, a := range m.apps {
		apps[id] = *a
	}
	return apps, append([]Payment(nil), m.payments...)
}

func (m *memRepo) restore(apps map[string]Application, payments []Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps = make(map[string]*Application, len(apps))
	for id, a := range apps {
		cp := a
		m.apps[id] = &cp
	}
	m.payments = payments
}

func (m *memRepo) Create(_ context.Context, app *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, id string) (*Application, error) {
	return m.GetByID(ctx, id)
}

func (m *memRepo) update(id string, fn func(a *Application) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || !fn(a) {
		return core.ErrNotFound
	}
	return nil
}

func (m *memRepo) AssignAgent(_ context.Context, id, agentEmail string) error {
	return m.update(id, func(a *Application) bool {
		a.AssignedAgent = &agentEmail
		return true
	})
}

func (m *memRepo) Decide(
	_ context.Context,
	id string,
	status Status,
	onlyPending bool,
) error {
	return m.update(id, func(a *Application) bool {
		if onlyPending && a.Status != StatusPending {
			return false
		}
		a.Status = status
		return true
	})
}

func (m *memRepo) SetPaymentDue(_ context.Context, id string) error {
	return m.update(id, func(a *Application) bool {
		if a.PaymentStatus == PaymentPaid {
			return false
		}
		a.PaymentStatus = PaymentDue
		return true
	})
}

func (m *memRepo) MarkPaid(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.PaymentStatus == PaymentPaid {
		return false, nil
	}
	a.PaymentStatus = PaymentPaid
	return true, nil
}

func (m *memRepo) MarkReviewSubmitted(_ context.Context, id string) error {
	return m.update(id, func(a *Application) bool {
		a.ReviewSubmitted = true
		return true
	})
}

func (m *memRepo) filter(keep func(a *Application) bool) []Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Application
	for _, a := range m.apps {
		if keep(a) {
			out = append(out, *a)
		}
	}
	return out
}

func (m *memRepo) ListByCustomer(_ context.Context, email string) ([]Application, error) {
	return m.filter(func(a *Application) bool { return a.CustomerEmail == email }), nil
}

func (m *memRepo) ListByAgent(_ context.Context, email string) ([]Application, error) {
	return m.filter(func(a *Application) bool { return a.AssignedTo(email) }), nil
}

func (m *memRepo) List(_ context.Context, p ListParams) ([]Application, int, error) {
	apps := m.filter(func(a *Application) bool {
		return p.Status == "" || string(a.Status) == p.Status
	})
	return apps, len(apps), nil
}

func (m *memRepo) CreatePayment(_ context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payments {
		if existing.TransactionID == p.TransactionID {
			return core.ErrDuplicateKey
		}
	}
	m.payments = append(m.payments, *p)
	return nil
}

func (m *memRepo) ListPayments(_ context.Context, email string) ([]Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payment
	for _, p := range m.payments {
		if email == "" || p.CustomerEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, a := range m.filter(func(*Application) bool { return true }) {
		counts[string(a.Status)]++
	}
	return counts, nil
}

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (c *memCounter) IncrementPurchaseCount(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.counts[id]++
	return nil
}

// memUoW restores the repo and counter when fn fails, like a rollback.
type memUoW struct {
	repo    *memRepo
	counter *memCounter
}

func (u *memUoW) Do(
	ctx context.Context,
	fn func(repo Repository, counter PurchaseCounter) error,
) error {
	apps, payments := u.repo.snapshot()
	u.counter.mu.Lock()
	counts := make(map[string]int, len(u.counter.counts))
	for k, v := range u.counter.counts {
		counts[k] = v
	}
	u.counter.mu.Unlock()

	if err := fn(u.repo, u.counter); err != nil {
		u.repo.restore(apps, payments)
		u.counter.mu.Lock()
		u.counter.counts = counts
		u.counter.mu.Unlock()
		return err
	}
	return nil
}

type fakePolicies map[string]*policy.Policy

func (f fakePolicies) Get(_ context.Context, id string) (*policy.Policy, error) {
	p, ok := f[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

type fakeRoles map[string]string

func (f fakeRoles) ResolveRole(_ context.Context, email string) (string, error) {
	if r, ok := f[email]; ok {
		return r, nil
	}
	return middleware.RoleCustomer, nil
}

const (
	policyID = "11111111-1111-4111-8111-111111111111"
	customer = "alice@lifesure.test"
	agentB   = "bob@lifesure.test"
	adminC   = "carol@lifesure.test"
)

type fixture struct {
	svc     *Service
	repo    *memRepo
	counter *memCounter
}

func newFixture(allowRedecision bool) *fixture {
	repo := newMemRepo()
	counter := &memCounter{counts: map[string]int{}}
	svc := NewService(
		repo,
		&memUoW{repo: repo, counter: counter},
		fakePolicies{policyID: {ID: policyID, Title: "Term Life 20"}},
		fakeRoles{agentB: middleware.RoleAgent, adminC: middleware.RoleAdmin},
		allowRedecision,
	)
	return &fixture{svc: svc, repo: repo, counter: counter}
}

func (f *fixture) submit(t *testing.T) *Application {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), customer, SubmitRequest{
		PolicyID:     policyID,
		CustomerName: "Alice",
		Details:      core.JSONMap{"nominee": "Dan"},
	})
	require.NoError(t, err)
	return app
}

func payment(tx string) PaymentInput {
	return PaymentInput{AmountCents: 4200, Currency: "usd", TransactionID: tx}
}

func TestApplicationScenario(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	app := f.submit(t)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, PaymentUnset, app.PaymentStatus)
	assert.Nil(t, app.AssignedAgent)
	assert.False(t, app.ClaimEligible())

	app, err := f.svc.AssignAgent(ctx, app.ID, agentB)
	require.NoError(t, err)
	require.NotNil(t, app.AssignedAgent)
	assert.Equal(t, agentB, *app.AssignedAgent)
	assert.Equal(t, StatusPending, app.Status)

	app, err = f.svc.Decide(ctx, app.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, app.Status)

	app, err = f.svc.MarkPaymentDue(ctx, app.ID, agentB)
	require.NoError(t, err)
	assert.Equal(t, PaymentDue, app.PaymentStatus)

	app, rec, err := f.svc.MarkPaid(ctx, app.ID, customer, payment("pi_1"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, PaymentPaid, app.PaymentStatus)
	assert.True(t, app.ClaimEligible())
	assert.Equal(t, 1, f.counter.counts[policyID])
}

func TestSubmitUnknownPolicy(t *testing.T) {
	f := newFixture(true)

	_, err := f.svc.Submit(context.Background(), customer, SubmitRequest{
		PolicyID:     "22222222-2222-4222-8222-222222222222",
		CustomerName: "Alice",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAssignAgentRequiresAgentRole(t *testing.T) {
	f := newFixture(true)
	app := f.submit(t)

	_, err := f.svc.AssignAgent(context.Background(), app.ID, "eve@lifesure.test")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = f.svc.AssignAgent(context.Background(), "missing", agentB)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAssignAgentIsIdempotentAtAnyStatus(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.svc.Decide(ctx, app.ID, StatusRejected)
	require.NoError(t, err)

	for range 2 {
		got, err := f.svc.AssignAgent(ctx, app.ID, agentB)
		require.NoError(t, err)
		assert.Equal(t, agentB, *got.AssignedAgent)
		assert.Equal(t, StatusRejected, got.Status)
	}
}

func TestDecideUnknownApplication(t *testing.T) {
	f := newFixture(true)

	_, err := f.svc.Decide(context.Background(), "missing", StatusApproved)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDecideRejectsNonDecision(t *testing.T) {
	f := newFixture(true)
	app := f.submit(t)

	_, err := f.svc.Decide(context.Background(), app.ID, StatusPending)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRedecision(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		f := newFixture(true)
		ctx := context.Background()
		app := f.submit(t)

		_, err := f.svc.Decide(ctx, app.ID, StatusApproved)
		require.NoError(t, err)
		got, err := f.svc.Decide(ctx, app.ID, StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
	})

	t.Run("forbidden by config", func(t *testing.T) {
		f := newFixture(false)
		ctx := context.Background()
		app := f.submit(t)

		_, err := f.svc.Decide(ctx, app.ID, StatusApproved)
		require.NoError(t, err)
		_, err = f.svc.Decide(ctx, app.ID, StatusRejected)
		assert.ErrorIs(t, err, core.ErrConflict)

		got, err := f.repo.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
	})
}

func TestMarkPaymentDueGuards(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.svc.MarkPaymentDue(ctx, app.ID, agentB)
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = f.svc.AssignAgent(ctx, app.ID, agentB)
	require.NoError(t, err)

	_, err = f.svc.MarkPaymentDue(ctx, app.ID, agentB)
	assert.ErrorIs(t, err, core.ErrPrecondition)

	_, err = f.svc.Decide(ctx, app.ID, StatusRejected)
	require.NoError(t, err)
	_, err = f.svc.MarkPaymentDue(ctx, app.ID, agentB)
	assert.ErrorIs(t, err, core.ErrPrecondition)
}

func TestMarkPaidRequiresApprovedOwner(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)

	_, _, err := f.svc.MarkPaid(ctx, app.ID, customer, payment("pi_1"))
	assert.ErrorIs(t, err, core.ErrPrecondition)

	_, err = f.svc.Decide(ctx, app.ID, StatusApproved)
	require.NoError(t, err)

	_, _, err = f.svc.MarkPaid(ctx, app.ID, "mallory@lifesure.test", payment("pi_1"))
	assert.ErrorIs(t, err, core.ErrForbidden)

	assert.Zero(t, f.counter.counts[policyID])
}

func TestMarkPaidReplayCountsOnce(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)
	_, err := f.svc.Decide(ctx, app.ID, StatusApproved)
	require.NoError(t, err)

	_, first, err := f.svc.MarkPaid(ctx, app.ID, customer, payment("pi_1"))
	require.NoError(t, err)
	require.NotNil(t, first)

	got, second, err := f.svc.MarkPaid(ctx, app.ID, customer, payment("pi_1"))
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)

	assert.Equal(t, 1, f.counter.counts[policyID])
	assert.Len(t, f.repo.payments, 1)
}

func TestMarkPaidRollsBackOnCounterFailure(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)
	_, err := f.svc.Decide(ctx, app.ID, StatusApproved)
	require.NoError(t, err)

	f.counter.err = errors.New("db down")
	_, _, err = f.svc.MarkPaid(ctx, app.ID, customer, payment("pi_1"))
	require.Error(t, err)

	got, err := f.repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentUnset, got.PaymentStatus)
	assert.Empty(t, f.repo.payments)
}

func TestEnsurePayable(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.svc.EnsurePayable(ctx, app.ID, customer)
	assert.ErrorIs(t, err, core.ErrPrecondition)

	_, err = f.svc.Decide(ctx, app.ID, StatusApproved)
	require.NoError(t, err)

	_, err = f.svc.EnsurePayable(ctx, app.ID, customer)
	require.NoError(t, err)

	_, _, err = f.svc.MarkPaid(ctx, app.ID, customer, payment("pi_1"))
	require.NoError(t, err)

	_, err = f.svc.EnsurePayable(ctx, app.ID, customer)
	assert.ErrorIs(t, err, core.ErrPrecondition)
}

func TestGetVisibility(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)
	_, err := f.svc.AssignAgent(ctx, app.ID, agentB)
	require.NoError(t, err)

	cases := []struct {
		email string
		role  string
		want  error
	}{
		{customer, middleware.RoleCustomer, nil},
		{agentB, middleware.RoleAgent, nil},
		{adminC, middleware.RoleAdmin, nil},
		{"mallory@lifesure.test", middleware.RoleCustomer, core.ErrForbidden},
		{"dave@lifesure.test", middleware.RoleAgent, core.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			_, err := f.svc.Get(ctx, app.ID, tc.email, tc.role)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestApprovedFor(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.svc.ApprovedFor(ctx, customer, policyID)
	assert.ErrorIs(t, err, core.ErrPrecondition)

	_, err = f.svc.Decide(ctx, app.ID, StatusApproved)
	require.NoError(t, err)

	got, err := f.svc.ApprovedFor(ctx, customer, policyID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
}

func TestListPaymentsScope(t *testing.T) {
	f := newFixture(true)
	f.repo.payments = []Payment{
		{ID: "1", CustomerEmail: customer},
		{ID: "2", CustomerEmail: "other@lifesure.test"},
	}

	mine, err := f.svc.ListPayments(context.Background(), customer, middleware.RoleCustomer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.ListPayments(context.Background(), adminC, middleware.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
