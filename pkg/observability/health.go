package observability

import (
	"context"
	"net/http"

	"github.com/golexcel/golexcel/pkg/httputil"
)

// HealthChecker is anything whose availability gates readiness
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes plus metrics on the
// secondary port.
type HealthHandler struct {
	checkers map[string]HealthChecker
	metrics  *Metrics
}

// NewHealthHandler creates a health handler
func NewHealthHandler(metrics *Metrics) *HealthHandler {
	return &HealthHandler{
		checkers: map[string]HealthChecker{},
		metrics:  metrics,
	}
}

// Register adds a named readiness dependency
func (h *HealthHandler) Register(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// Routes returns the mux for the health server
func (h *HealthHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.live)
	mux.HandleFunc("/readyz", h.ready)
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics.Handler())
	}
	return mux
}

func (h *HealthHandler) live(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (h *HealthHandler) ready(w http.ResponseWriter, r *http.Request) {
	results := map[string]string{}
	healthy := true
	for name, checker := range h.checkers {
		if err := checker.HealthCheck(r.Context()); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, results)
}
