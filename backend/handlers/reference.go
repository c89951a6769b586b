// ABOUTME: HTTP handlers for static reference data
// ABOUTME: Serves the gas catalogue and the ZH-L16C compartment table

package handlers

import (
	"net/http"

	"github.com/arthurportas/tech-diving-app/backend/services"
)

// Gases lists the bottom gas presets and deco gas policies.
func (h *Handler) Gases(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, services.GasCatalog())
}

// Compartments lists the ZH-L16C coefficients with compartment labels.
func (h *Handler) Compartments(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, services.CompartmentTable())
}
