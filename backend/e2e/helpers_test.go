// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds a full API server from environment configuration

package e2e

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthurportas/tech-diving-app/backend/cache"
	"github.com/arthurportas/tech-diving-app/backend/config"
	"github.com/arthurportas/tech-diving-app/backend/handlers"
	"github.com/arthurportas/tech-diving-app/backend/metrics"
	"github.com/arthurportas/tech-diving-app/backend/middleware"
	"github.com/arthurportas/tech-diving-app/backend/models"
)

// newTestServer loads configuration from the given environment, wires the
// server the same way main does, and returns it with its metrics.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    srv, _ := newTestServer(t, map[string]string{
//	        "CORS_ALLOWED_ORIGINS": "https://example.com",
//	    })
//	}
func newTestServer(t *testing.T, env map[string]string) (*httptest.Server, *metrics.PlannerMetrics) {
	t.Helper()

	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	c := cache.New[*models.PlanResult](time.Duration(cfg.CacheTTL) * time.Second)
	t.Cleanup(c.Close)

	m := metrics.NewPlannerMetrics(metrics.NewRegistry())
	h := handlers.NewHandler(cfg, c, m)

	var limits handlers.Limits
	if cfg.RateLimitEnabled {
		limits.Plan = middleware.NewRateLimiter(cfg.RateLimitPlan, time.Minute)
		limits.Default = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
	}

	srv := httptest.NewServer(h.NewMux(limits))
	t.Cleanup(srv.Close)
	return srv, m
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
