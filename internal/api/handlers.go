package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tastemap/playlist-tools/internal/profile"
)

// StatsProvider computes (or serves from cache) the stats for one profile.
type StatsProvider interface {
	Stats(ctx context.Context, profileName string) (*profile.Stats, error)
}

type Handler struct {
	svc     StatsProvider
	metrics *Metrics
	log     *slog.Logger
}

func NewHandler(svc StatsProvider, metrics *Metrics, log *slog.Logger) *Handler {
	return &Handler{svc: svc, metrics: metrics, log: log}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.metrics.Inc("stats")

	name := chi.URLParam(r, "profile")
	// chi leaves route params escaped when the request URI was.
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		writeJSON(w, http.StatusBadRequest,
			errorBody("invalid profile name", "profile names must not contain path separators"))
		return
	}

	stats, err := h.svc.Stats(r.Context(), name)
	if err != nil {
		h.writeStatsError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeStatsError maps the pipeline's failure kinds onto status codes so
// clients can tell "nothing there" from "there, but unusable".
func (h *Handler) writeStatsError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, profile.ErrNoSourceData):
		writeJSON(w, http.StatusNotFound,
			errorBody("no source data found", "check the profile name and data directory"))
	case errors.Is(err, profile.ErrNoUsableColumns):
		writeJSON(w, http.StatusUnprocessableEntity,
			errorBody("source data missing required columns",
				"export files need a track identifier or name and artist columns"))
	default:
		h.log.Error("stats computation failed",
			slog.String("profile", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError,
			errorBody("computation failed", "see server logs"))
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

func (h *Handler) ResetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
