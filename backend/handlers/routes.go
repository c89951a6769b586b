// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import (
	"net/http"

	"github.com/arthurportas/tech-diving-app/backend/middleware"
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Pattern returns the ServeMux pattern for the route, e.g. "POST /api/v1/plan".
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/metrics", Handler: h.Metrics},

		// Planning
		{Method: http.MethodPost, Path: "/api/v1/plan", Handler: h.Plan},
		{Method: http.MethodPost, Path: "/api/v1/plan/strategies", Handler: h.Strategies},
		{Method: http.MethodPost, Path: "/api/v1/plan/compare", Handler: h.Compare},

		// Reference data
		{Method: http.MethodGet, Path: "/api/v1/gases", Handler: h.Gases},
		{Method: http.MethodGet, Path: "/api/v1/compartments", Handler: h.Compartments},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}

// Limits selects the rate limiter for each route. Nil limiters disable rate limiting.
type Limits struct {
	Plan    *middleware.RateLimiter // POST routes
	Default *middleware.RateLimiter // everything else
}

// NewMux registers every route behind the standard middleware chain:
// logging, CORS, rate limiting, then request counting. Each path also
// answers CORS preflight requests.
func (h *Handler) NewMux(limits Limits) *http.ServeMux {
	mux := http.NewServeMux()
	cors := middleware.CORS(h.cfg.CORSAllowedOrigins)
	clientKey := middleware.ClientIP(h.cfg.TrustedProxies)
	preflight := make(map[string]bool)

	for _, route := range h.Routes() {
		limiter := limits.Default
		if route.Method == http.MethodPost {
			limiter = limits.Plan
		}

		mux.HandleFunc(route.Pattern(), middleware.Chain(route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiter, clientKey),
			middleware.Instrument(route.Pattern(), h.metrics.HTTPRequests),
		))

		if !preflight[route.Path] {
			preflight[route.Path] = true
			mux.HandleFunc(http.MethodOptions+" "+route.Path, middleware.Chain(route.Handler, middleware.LogRequest, cors))
		}
	}
	return mux
}
