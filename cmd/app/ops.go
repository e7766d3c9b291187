package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gemtrader/pkg/metrics"
)

// pinger reports whether a backing store is reachable
type pinger interface {
	Ping(ctx context.Context) error
}

// newOpsRouter serves health and Prometheus metrics on the operations port
func newOpsRouter(db pinger, backend string, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", handleHealth(db, backend))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}

func handleHealth(db pinger, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		dbStatus := "healthy"
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				dbStatus = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    dbStatus,
			"service":   "gemtrader",
			"storage":   backend,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
