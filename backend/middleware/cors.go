// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Echoes whitelisted origins and answers preflight OPTIONS requests

package middleware

import (
	"net/http"
	"slices"
)

// CORS returns middleware that adds CORS headers for origins in allowedOrigins.
// A "*" entry allows every origin. Requests without an Origin header (same-origin,
// curl, the CLI) pass through untouched. Preflight requests are answered with 204
// without calling the wrapped handler.
func CORS(allowedOrigins []string) Middleware {
	allowAll := slices.Contains(allowedOrigins, "*")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && (allowAll || slices.Contains(allowedOrigins, origin))

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				if !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
