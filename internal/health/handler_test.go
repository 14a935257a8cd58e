// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func readyz(t *testing.T, h *Handler) (int, ReadinessResponse) {
	t.Helper()
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestReadiness(t *testing.T) {
	down := pinger{err: errors.New("connection refused")}

	cases := []struct {
		name   string
		checks []Check
		code   int
		status string
	}{
		{
			name: "all healthy",
			checks: []Check{
				{Name: "database", Checker: pinger{}, Critical: true},
				{Name: "storage", Checker: pinger{}},
			},
			code:   http.StatusOK,
			status: "ok",
		},
		{
			name: "optional dependency down",
			checks: []Check{
				{Name: "database", Checker: pinger{}, Critical: true},
				{Name: "storage", Checker: down},
			},
			code:   http.StatusOK,
			status: "degraded",
		},
		{
			name: "critical dependency down",
			checks: []Check{
				{Name: "database", Checker: down, Critical: true},
				{Name: "storage", Checker: pinger{}},
			},
			code:   http.StatusServiceUnavailable,
			status: "unavailable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := readyz(t, NewHandler(tc.checks...))
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.status, body.Status)
			assert.Len(t, body.Checks, len(tc.checks))
		})
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler(Check{Name: "database", Checker: pinger{}, Critical: true})
	h.SetShutdown(true)

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	for _, path := range []string{"/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}
