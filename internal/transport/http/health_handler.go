package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler serves liveness information.
type HealthHandler struct {
	datasets  DatasetServiceInterface
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(datasets DatasetServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		datasets:  datasets,
		startedAt: time.Now().UTC(),
		version:   version,
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/healthz. The service is healthy with or
// without a dataset; dataset presence is reported so the dashboard can
// prompt for an upload.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	datasetLoaded := false
	datasetID := ""
	if md, err := h.datasets.Metadata(r.Context()); err == nil {
		datasetLoaded = true
		datasetID = md.ID
	}

	render.JSON(w, r, map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"uptime":         time.Since(h.startedAt).String(),
		"dataset_loaded": datasetLoaded,
		"dataset_id":     datasetID,
	})
}
