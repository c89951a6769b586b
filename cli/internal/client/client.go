// ABOUTME: HTTP client for the decompression planner API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

// Client is the API client for the planner backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the backend URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-200 response from the backend
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("backend error: %s (%s)", e.Message, e.Details)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsExcessiveDecompression reports whether err is the backend refusing a
// profile whose stops never clear.
func IsExcessiveDecompression(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Plan calls POST /api/v1/plan. The tissue timeline is only requested when
// withTimeline is set.
func (c *Client) Plan(ctx context.Context, params models.DiveParameters, withTimeline bool) (*models.PlanResult, error) {
	path := "/api/v1/plan"
	if !withTimeline {
		path += "?timeline=false"
	}

	var plan models.PlanResult
	if err := c.do(ctx, http.MethodPost, path, params, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Strategies calls POST /api/v1/plan/strategies. An empty strategy requests all of them.
func (c *Client) Strategies(ctx context.Context, params models.DiveParameters, strategy string) (*models.StrategyResponse, error) {
	body := struct {
		models.DiveParameters
		Strategy string `json:"strategy,omitempty"`
	}{params, strategy}

	var resp models.StrategyResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan/strategies", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compare calls POST /api/v1/plan/compare
func (c *Client) Compare(ctx context.Context, profiles []models.DiveParameters) (*models.CompareResponse, error) {
	var resp models.CompareResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan/compare", models.CompareRequest{Profiles: profiles}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Gases calls GET /api/v1/gases
func (c *Client) Gases(ctx context.Context) (*models.GasCatalog, error) {
	var catalog models.GasCatalog
	if err := c.do(ctx, http.MethodGet, "/api/v1/gases", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error, Details: errResp.Details}
}
