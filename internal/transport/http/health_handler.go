package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/services"
)

// HealthHandler serves the health endpoint.
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Check handles GET /api/health. A degraded service still answers 200
// so the dashboard can show why it is not ready.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())

	h.logger.DebugContext(r.Context(), "health check",
		slog.String("status", status.Status))

	render.JSON(w, r, status)
}
