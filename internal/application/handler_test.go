// AngelaMos | 2026
// handler_test.go

package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type tokenVerifier map[string]string

func (v tokenVerifier) VerifySession(
	_ context.Context,
	token string,
) (*middleware.Identity, error) {
	email, ok := v[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return &middleware.Identity{Email: email}, nil
}

func newTestRouter(f *fixture) http.Handler {
	guards := middleware.NewGuards(
		tokenVerifier{"cust": customer, "agent": agentB, "admin": adminC},
		fakeRoles{agentB: middleware.RoleAgent, adminC: middleware.RoleAdmin},
		"token",
	)
	router := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(router, guards)
	return router
}

func TestApplicationRoutesGuards(t *testing.T) {
	f := newFixture(true)
	app := f.submit(t)
	router := newTestRouter(f)

	const unknownID = "22222222-2222-4222-8222-222222222222"

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"anonymous list all", http.MethodGet, "/applications", "", "", http.StatusUnauthorized},
		{"forged token list all", http.MethodGet, "/applications", "forged", "", http.StatusUnauthorized},
		{"customer list all", http.MethodGet, "/applications", "cust", "", http.StatusForbidden},
		{"agent list all", http.MethodGet, "/applications", "agent", "", http.StatusForbidden},
		{"admin list all", http.MethodGet, "/applications", "admin", "", http.StatusOK},
		{"agent assigned", http.MethodGet, "/applications/assigned", "agent", "", http.StatusOK},
		{"customer assigned", http.MethodGet, "/applications/assigned", "cust", "", http.StatusForbidden},
		{"customer mine", http.MethodGet, "/applications/mine", "cust", "", http.StatusOK},
		{"agent decides", http.MethodPatch, "/applications/" + app.ID + "/status", "agent",
			`{"status":"Approved"}`, http.StatusForbidden},
		{"admin decides unknown", http.MethodPatch, "/applications/" + unknownID + "/status", "admin",
			`{"status":"Approved"}`, http.StatusNotFound},
		{"admin decides garbage status", http.MethodPatch, "/applications/" + app.ID + "/status", "admin",
			`{"status":"Maybe"}`, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/applications/not-a-uuid", "cust", "", http.StatusBadRequest},
		{"admin submits", http.MethodPost, "/applications", "admin",
			`{"policy_id":"` + policyID + `","customer_name":"Carol"}`, http.StatusForbidden},
		{"customer submits", http.MethodPost, "/applications", "cust",
			`{"policy_id":"` + policyID + `","customer_name":"Alice"}`, http.StatusCreated},
		{"customer submits unknown policy", http.MethodPost, "/applications", "cust",
			`{"policy_id":"` + unknownID + `","customer_name":"Alice"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDecideRouteLeavesStatusOnForbidden(t *testing.T) {
	f := newFixture(true)
	app := f.submit(t)
	router := newTestRouter(f)

	req := httptest.NewRequest(
		http.MethodPatch,
		"/applications/"+app.ID+"/status",
		strings.NewReader(`{"status":"Approved"}`),
	)
	req.Header.Set("Authorization", "Bearer cust")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := f.repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}
