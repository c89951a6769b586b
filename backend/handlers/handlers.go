// ABOUTME: HTTP handlers for the decompression planning API
// ABOUTME: Shared handler state, request decoding, and error-to-status mapping

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/sync/singleflight"

	"github.com/arthurportas/tech-diving-app/backend/cache"
	"github.com/arthurportas/tech-diving-app/backend/config"
	"github.com/arthurportas/tech-diving-app/backend/metrics"
	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
)

// maxRequestBodySize caps request bodies at 1 MiB.
const maxRequestBodySize = 1 << 20

// ModelName identifies the decompression algorithm in health responses.
const ModelName = "ZH-L16C+GF"

// Version is stamped at build time with -ldflags "-X ...handlers.Version=...".
var Version = "dev"

type Handler struct {
	cfg           *config.Config
	limits        services.Limits
	cache         *cache.Cache[*models.PlanResult]
	planner       *services.DecompressionPlanner
	redistributor *services.StrategyRedistributor
	comparer      *services.ProfileComparer
	metrics       *metrics.PlannerMetrics
	flight        singleflight.Group
}

// NewHandler wires the planning services. Any argument may be nil: a nil
// config uses the built-in planning defaults, a nil cache disables plan
// caching, and nil metrics record into a private registry.
func NewHandler(cfg *config.Config, c *cache.Cache[*models.PlanResult], m *metrics.PlannerMetrics) *Handler {
	if cfg == nil {
		cfg = defaultConfig()
	}
	if m == nil {
		m = metrics.NewPlannerMetrics(metrics.NewRegistry())
	}

	planner := services.NewDecompressionPlanner()
	return &Handler{
		cfg:           cfg,
		limits:        cfg.Limits(),
		cache:         c,
		planner:       planner,
		redistributor: services.NewStrategyRedistributor(),
		comparer:      services.NewProfileComparer(planner, cfg.CompareWorkers),
		metrics:       m,
	}
}

func defaultConfig() *config.Config {
	d := models.DefaultDiveParameters()
	limits := services.DefaultLimits()
	return &config.Config{
		MaxCompareProfiles:       8,
		MaxDepth:                 limits.MaxDepth,
		MaxBottomTime:            limits.MaxBottomTime,
		MinRate:                  limits.MinRate,
		DefaultGFLow:             d.GFLow,
		DefaultGFHigh:            d.GFHigh,
		DefaultDescentRate:       d.DescentRate,
		DefaultAscentRate:        d.Ascent.Rate,
		DefaultDeepAscentRate:    d.Ascent.DeepRate,
		DefaultShallowAscentRate: d.Ascent.ShallowRate,
		DefaultShallowThreshold:  d.Ascent.ShallowThreshold,
		DefaultLastStop:          d.LastStopDepth,
		DefaultDecoO2Percent:     d.DecoO2Percent,
	}
}

// Metrics exposes the planner metrics registry in Prometheus text format.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.Registry.Handler()(w, r)
}

// plan returns the cached result for params or computes it. Concurrent
// requests for the same parameters share one computation.
func (h *Handler) plan(params models.DiveParameters) (*models.PlanResult, bool, error) {
	if err := h.limits.Check(params); err != nil {
		return nil, false, err
	}

	key, err := cacheKey(params)
	if err != nil {
		return nil, false, err
	}

	if h.cache != nil {
		if result, ok := h.cache.Get(key); ok {
			h.metrics.CacheHits.Inc()
			slog.Debug("Plan cache hit", "key", key)
			return result, true, nil
		}
	}

	v, err, shared := h.flight.Do(key, func() (any, error) {
		start := time.Now()
		result, err := h.planner.Plan(params)
		if err != nil {
			return nil, err
		}
		h.metrics.Plans.Inc()
		h.metrics.DecoMinutes.Set(float64(result.TotalDecoTime))
		if h.cache != nil {
			h.cache.Set(key, result)
		}
		slog.Info("Plan computed",
			"depth", params.Depth,
			"bottom_time", params.BottomTime,
			"stops", len(result.Rows),
			"runtime", result.TotalRuntime,
			"duration_ms", time.Since(start).Milliseconds())
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		slog.Debug("Plan shared with concurrent request", "key", key)
	}
	return v.(*models.PlanResult), false, nil
}

func cacheKey(params models.DiveParameters) (string, error) {
	hash, err := hashstructure.Hash(params, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing dive parameters: %w", err)
	}
	return fmt.Sprintf("plan:%016x", hash), nil
}

// decodeJSON reads a size-limited JSON body into dst. On failure it writes
// the error response and returns false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "Request body too large", "", http.StatusRequestEntityTooLarge)
			return false
		}
		h.writeError(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// decodeParams decodes raw onto the configured planning defaults, so absent
// fields keep their default values.
func (h *Handler) decodeParams(raw json.RawMessage) (models.DiveParameters, error) {
	params := h.cfg.PlanDefaults()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return params, err
	}
	return params, nil
}

// errorKind maps planner errors to a status code and a metrics label.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, services.ErrInvalidConfiguration):
		return http.StatusBadRequest, "invalid_configuration"
	case errors.Is(err, services.ErrExcessiveDecompressionTime):
		return http.StatusUnprocessableEntity, "excessive_decompression"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writePlanError reports a planner failure and counts it by kind.
func (h *Handler) writePlanError(w http.ResponseWriter, err error) {
	code, kind := errorKind(err)
	h.metrics.PlanErrors.Inc(kind)

	if code == http.StatusInternalServerError {
		slog.Error("Planning failed", "error", err)
		h.writeError(w, "Planning failed", "", code)
		return
	}

	slog.Warn("Plan rejected", "kind", kind, "error", err)
	message := "Invalid dive parameters"
	switch kind {
	case "excessive_decompression":
		message = "Decompression time exceeds planner limits"
	case "cancelled":
		message = "Request cancelled"
	}
	h.writeError(w, message, err.Error(), code)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
