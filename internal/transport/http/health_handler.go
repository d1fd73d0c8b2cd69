package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sgjobs/internal/services"
)

// HealthHandler reports liveness and artifact readiness.
type HealthHandler struct {
	service *services.DataService
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(service *services.DataService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
		started: time.Now(),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	r.Get("/ready", h.GetReady)
	return r
}

// GetHealth is the liveness probe.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// GetReady reports whether every gold artifact exists. Degraded (some
// tables missing) is still a 200; the body says which tables are absent.
func (h *HealthHandler) GetReady(w http.ResponseWriter, r *http.Request) {
	tables := h.service.TableNames()
	ready := true
	var missing []string
	for name, ok := range tables {
		if !ok {
			ready = false
			missing = append(missing, name)
		}
	}

	status := "ready"
	if !ready {
		status = "degraded"
	}
	render.JSON(w, r, map[string]any{
		"status":  status,
		"missing": missing,
	})
}
