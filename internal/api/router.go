package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fernandezvara/catalogd/internal/store"
)

// NewRouter wires middleware, the item endpoints and the operational
// endpoints (/healthz, /metrics) into a single handler.
func NewRouter(logger *slog.Logger, repo ItemRepository, st *store.Store, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))

	NewItemHandler(repo, logger).Routes(r)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := st.Health(req.Context())
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}
