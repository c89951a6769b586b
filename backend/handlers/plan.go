// ABOUTME: HTTP handlers for planning, strategy comparison, and profile comparison
// ABOUTME: Decodes dive parameters onto configured defaults and runs the planner

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

// strategyRequest is a dive profile plus an optional single strategy.
type strategyRequest struct {
	models.DiveParameters
	Strategy string `json:"strategy,omitempty"`
}

// compareRequest defers profile decoding so each profile starts from defaults.
type compareRequest struct {
	Profiles []json.RawMessage `json:"profiles"`
}

// Plan computes a full decompression plan. Pass ?timeline=false to omit the
// per-minute tissue timeline from the response.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	params := h.cfg.PlanDefaults()
	if !h.decodeJSON(w, r, &params) {
		return
	}

	result, hit, err := h.plan(params)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	if includeTimeline, err := strconv.ParseBool(r.URL.Query().Get("timeline")); err == nil && !includeTimeline {
		// Results are shared through the cache, so trim a copy.
		trimmed := *result
		trimmed.TissueTimeline = nil
		result = &trimmed
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Strategies plans the dive and redistributes its deco minutes under every
// strategy, or only under the requested one.
func (h *Handler) Strategies(w http.ResponseWriter, r *http.Request) {
	req := strategyRequest{DiveParameters: h.cfg.PlanDefaults()}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, _, err := h.plan(req.DiveParameters)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	strategies, err := h.redistributor.Select(result.Rows, result.TotalDecoTime, req.Strategy)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	resp := models.StrategyResponse{Plan: result.Summary(), Strategies: strategies}
	h.writeJSON(w, http.StatusOK, resp)
}

// Compare plans several profiles in parallel and returns their summaries in
// request order.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if len(req.Profiles) == 0 {
		h.writeError(w, "At least one profile is required", "", http.StatusBadRequest)
		return
	}
	if len(req.Profiles) > h.cfg.MaxCompareProfiles {
		h.writeError(w, "Too many profiles",
			fmt.Sprintf("got %d, maximum is %d", len(req.Profiles), h.cfg.MaxCompareProfiles),
			http.StatusBadRequest)
		return
	}

	profiles := make([]models.DiveParameters, len(req.Profiles))
	for i, raw := range req.Profiles {
		params, err := h.decodeParams(raw)
		if err != nil {
			h.writeError(w, "Invalid JSON", fmt.Sprintf("profile %d: %v", i, err), http.StatusBadRequest)
			return
		}
		if err := h.limits.Check(params); err != nil {
			h.writePlanError(w, fmt.Errorf("profile %d: %w", i, err))
			return
		}
		profiles[i] = params
	}

	results, err := h.comparer.Compare(r.Context(), profiles)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	resp := models.CompareResponse{Plans: make([]models.PlanSummary, len(results))}
	for i, result := range results {
		resp.Plans[i] = result.Summary()
	}
	h.metrics.Plans.Add(float64(len(results)))

	h.writeJSON(w, http.StatusOK, resp)
}
