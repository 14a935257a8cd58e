// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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

type roleTable map[string]string

func (r roleTable) ResolveRole(_ context.Context, email string) (string, error) {
	if role, ok := r[email]; ok {
		return role, nil
	}
	return middleware.RoleCustomer, nil
}

func newRouter(cfg HandlerConfig) *chi.Mux {
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	guards := middleware.NewGuards(
		tokenVerifier{"admin": "root@lifesure.test", "cust": "alice@lifesure.test"},
		roleTable{"root@lifesure.test": middleware.RoleAdmin},
		"token",
	)
	router := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(router, guards)
	return router
}

func get(router http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStatsRequireAdmin(t *testing.T) {
	router := newRouter(HandlerConfig{})

	assert.Equal(t, http.StatusUnauthorized, get(router, "/admin/stats", "").Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/admin/stats", "cust").Code)
	assert.Equal(t, http.StatusOK, get(router, "/admin/stats/runtime", "admin").Code)
}

func TestBusinessStats(t *testing.T) {
	router := newRouter(HandlerConfig{
		ApplicationCounts: func(context.Context) (map[string]int, error) {
			return map[string]int{"Pending": 3, "Approved": 2, "Rejected": 1}, nil
		},
		ClaimCounts: func(context.Context) (map[string]int, error) {
			return nil, errors.New("db down")
		},
		PolicyTotal: func(context.Context) (int, error) { return 12, nil },
		UserTotal:   func(context.Context) (int, error) { return 40, nil },
	})

	rec := get(router, "/admin/stats/business", "admin")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data BusinessStats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 3, body.Data.Applications["Pending"])
	assert.Nil(t, body.Data.Claims)
	require.NotNil(t, body.Data.Policies)
	assert.Equal(t, 12, *body.Data.Policies)
	require.NotNil(t, body.Data.Users)
	assert.Equal(t, 40, *body.Data.Users)
	assert.True(t, body.Data.Partial)
}
