// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

type StatusCounter func(ctx context.Context) (map[string]int, error)

type TotalCounter func(ctx context.Context) (int, error)

type Handler struct {
	dbStats           func() sql.DBStats
	redisStats        func() *redis.PoolStats
	redisPing         func(ctx context.Context) error
	dbPing            func(ctx context.Context) error
	applicationCounts StatusCounter
	claimCounts       StatusCounter
	policyTotal       TotalCounter
	userTotal         TotalCounter
	logger            *slog.Logger
}

type HandlerConfig struct {
	DBStats           func() sql.DBStats
	RedisStats        func() *redis.PoolStats
	RedisPing         func(ctx context.Context) error
	DBPing            func(ctx context.Context) error
	ApplicationCounts StatusCounter
	ClaimCounts       StatusCounter
	PolicyTotal       TotalCounter
	UserTotal         TotalCounter
	Logger            *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dbStats:           cfg.DBStats,
		redisStats:        cfg.RedisStats,
		redisPing:         cfg.RedisPing,
		dbPing:            cfg.DBPing,
		applicationCounts: cfg.ApplicationCounts,
		claimCounts:       cfg.ClaimCounts,
		policyTotal:       cfg.PolicyTotal,
		userTotal:         cfg.UserTotal,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, g *middleware.Guards) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(g.Require(
			middleware.Authenticated(),
			middleware.HasRole(middleware.RoleAdmin),
		))

		r.Get("/", h.GetSystemStats)
		r.Get("/business", h.GetBusinessStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	response := SystemStatsResponse{
		Business: h.collectBusiness(ctx),
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetBusinessStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.collectBusiness(r.Context()))
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

// collectBusiness runs the four count queries concurrently. A failed query
// is logged and reported as missing rather than failing the whole response.
func (h *Handler) collectBusiness(ctx context.Context) BusinessStats {
	var (
		stats BusinessStats
		mu    sync.Mutex
		wg    sync.WaitGroup
	)

	fail := func(name string, err error) {
		h.logger.ErrorContext(ctx, "admin stats query failed",
			"stat", name,
			"error", err,
		)
		mu.Lock()
		stats.Partial = true
		mu.Unlock()
	}

	statusCount := func(name string, fn StatusCounter, dst *map[string]int) {
		defer wg.Done()
		if fn == nil {
			return
		}
		counts, err := fn(ctx)
		if err != nil {
			fail(name, err)
			return
		}
		mu.Lock()
		*dst = counts
		mu.Unlock()
	}

	total := func(name string, fn TotalCounter, dst **int) {
		defer wg.Done()
		if fn == nil {
			return
		}
		n, err := fn(ctx)
		if err != nil {
			fail(name, err)
			return
		}
		mu.Lock()
		*dst = &n
		mu.Unlock()
	}

	wg.Add(4)
	go statusCount("applications", h.applicationCounts, &stats.Applications)
	go statusCount("claims", h.claimCounts, &stats.Claims)
	go total("policies", h.policyTotal, &stats.Policies)
	go total("users", h.userTotal, &stats.Users)
	wg.Wait()

	return stats
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}
