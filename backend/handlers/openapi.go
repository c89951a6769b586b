// ABOUTME: Handler for serving the OpenAPI document
// ABOUTME: Embeds openapi.yaml at compile time so the binary is self-describing

package handlers

import (
	_ "embed"
	"log/slog"
	"net/http"
	"strconv"
)

//go:embed openapi.yaml
var openapiSpec []byte

// OpenAPISpec serves the embedded OpenAPI document.
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Length", strconv.Itoa(len(openapiSpec)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(openapiSpec); err != nil {
		slog.Debug("writing OpenAPI document", "error", err)
	}
}
