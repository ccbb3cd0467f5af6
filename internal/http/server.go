package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the ops surface of the relay: liveness, readiness and metrics.
// Ping checks the persistent ledger when one is configured; nil means
// there is no external dependency to probe.
type Server struct {
	Ping func(ctx context.Context) error
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if s.Ping != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 1*time.Second)
			defer cancel()
			if err := s.Ping(ctx); err != nil {
				http.Error(w, "ledger not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Method("GET", "/metrics", promhttp.Handler())
	return r
}
