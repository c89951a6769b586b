// ABOUTME: Integration tests for CORS through the full route table
// ABOUTME: Browser origins against planning and read-only routes, plus preflight

package e2e

import (
	"net/http"
	"strings"
	"testing"
)

func TestCORSIntegration(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"CORS_ALLOWED_ORIGINS": "https://planner.example.com, http://localhost:5173",
	})

	const planBody = `{"depth": 30, "bottom_time": 20}`

	tests := []struct {
		name       string
		method     string
		path       string
		origin     string
		preflight  bool
		wantStatus int
		wantOrigin string
	}{
		{"plan from allowed origin", http.MethodPost, "/api/v1/plan", "https://planner.example.com", false, http.StatusOK, "https://planner.example.com"},
		{"gases from dev origin", http.MethodGet, "/api/v1/gases", "http://localhost:5173", false, http.StatusOK, "http://localhost:5173"},
		{"other port is a different origin", http.MethodGet, "/api/v1/health", "http://localhost:3000", false, http.StatusOK, ""},
		{"unknown origin still served", http.MethodPost, "/api/v1/plan", "https://evil.example", false, http.StatusOK, ""},
		{"preflight allowed", http.MethodOptions, "/api/v1/plan", "https://planner.example.com", true, http.StatusNoContent, "https://planner.example.com"},
		{"preflight refused", http.MethodOptions, "/api/v1/plan", "https://evil.example", true, http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.NewReader("")
			if tt.method == http.MethodPost {
				body = strings.NewReader(planBody)
			}
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, body)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Content-Type", "application/json")
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Expected Access-Control-Allow-Origin %q, got %q", tt.wantOrigin, got)
			}
		})
	}
}
