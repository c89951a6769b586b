// ABOUTME: JSON response helpers for middleware
// ABOUTME: Keeps middleware error bodies in the same shape as handler errors

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode middleware response", "error", err)
	}
}

// writeJSONError writes a models.ErrorResponse with the given status code.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, models.ErrorResponse{Error: message, Code: code})
}
