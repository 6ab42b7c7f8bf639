package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/devcamper/api/internal/model"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler that pings db
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// RegisterRoutes registers the health route on the mux
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /health", Endpoint(h.Health))
}

// Health reports ok when the database answers a ping
func (h *HealthHandler) Health(r *http.Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("health check failed", slog.String("error", err.Error()))
		return nil, &model.APIError{Status: http.StatusServiceUnavailable, Message: "Database unavailable"}
	}
	return Data(http.StatusOK, map[string]string{"status": "ok"}), nil
}
