// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Check is one dependency probed by /readyz. Only a failing critical check
// takes the instance out of rotation; the rest mark it degraded.
type Check struct {
	Name     string
	Checker  Checker
	Critical bool
}

type Handler struct {
	checks   []Check
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(checks ...Check) *Handler {
	h := &Handler{checks: checks}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	writeStatus(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	results := h.run(ctx)

	status, code := "ok", http.StatusOK
	for i, res := range results {
		if res.Healthy {
			continue
		}
		if h.checks[i].Critical {
			status, code = "unavailable", http.StatusServiceUnavailable
			break
		}
		status = "degraded"
	}

	writeStatus(w, code, ReadinessResponse{Status: status, Checks: results})
}

func (h *Handler) run(ctx context.Context) []HealthCheck {
	results := make([]HealthCheck, len(h.checks))

	var wg sync.WaitGroup
	for i, c := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = probe(ctx, c)
		}()
	}
	wg.Wait()

	return results
}

func probe(ctx context.Context, c Check) HealthCheck {
	res := HealthCheck{Name: c.Name, Healthy: true, Critical: c.Critical}

	if c.Checker == nil {
		res.Healthy = false
		res.Message = "not configured"
		return res
	}

	start := time.Now()
	err := c.Checker.Ping(ctx)
	res.Latency = time.Since(start).String()

	if err != nil {
		res.Healthy = false
		res.Message = "ping failed"
	}

	return res
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name     string `json:"name"`
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Latency  string `json:"latency,omitempty"`
	Message  string `json:"message,omitempty"`
}
