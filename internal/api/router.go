package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// NewRouter wires the handlers behind request-id, access-log and
// rate-limit middleware. A nil limiter disables rate limiting.
func NewRouter(h *Handler, log *slog.Logger, limiter *rate.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logging(log))
	if limiter != nil {
		r.Use(RateLimit(limiter))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats/{profile}", h.GetStats)
		r.Get("/healthz", h.Healthz)
		r.Get("/metrics", h.GetMetrics)
		r.Post("/metrics/reset", h.ResetMetrics)
	})

	return r
}
