package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"shipment-dashboard/internal/cache"
)

// Pinger checks that the shipment backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	backend    Pinger
	trackCache *cache.Manager
	timeout    time.Duration
	logger     *slog.Logger
}

// NewHealthHandler creates a new health handler. A zero timeout defaults to
// five seconds.
func NewHealthHandler(backend Pinger, timeout time.Duration, logger *slog.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{backend: backend, timeout: timeout, logger: logger}
}

// WithTrackCache adds the tracking cache statistics to health responses.
func (h *HealthHandler) WithTrackCache(c *cache.Manager) *HealthHandler {
	h.trackCache = c
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string       `json:"status"`
	Backend    string       `json:"backend"`
	Message    string       `json:"message,omitempty"`
	TrackCache *cache.Stats `json:"track_cache,omitempty"`
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var stats *cache.Stats
	if h.trackCache != nil {
		s := h.trackCache.Stats()
		stats = &s
	}

	if err := h.backend.Ping(ctx); err != nil {
		h.logger.Warn("backend health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:     "unhealthy",
			Backend:    "error",
			Message:    err.Error(),
			TrackCache: stats,
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Backend: "ok", TrackCache: stats})
}
