// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service status, planner model, and plan cache size

package handlers

import (
	"net/http"
	"time"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

// Health returns API health status including the planner model and cache size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		Model:     ModelName,
		Version:   Version,
		Timestamp: time.Now().UTC(),
	}
	if h.cache != nil {
		resp.CacheEntries = h.cache.Len()
	}

	h.writeJSON(w, http.StatusOK, resp)
}
