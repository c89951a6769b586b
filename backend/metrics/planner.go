// ABOUTME: Planning service metric set
// ABOUTME: Plan, error, cache, and HTTP request counters plus the last plan's deco time

package metrics

// PlannerMetrics groups the metrics recorded by the planning handlers.
type PlannerMetrics struct {
	Registry     *Registry
	Plans        *CounterVec
	PlanErrors   *CounterVec // kind
	CacheHits    *CounterVec
	HTTPRequests *CounterVec // route, code
	DecoMinutes  *GaugeVec
}

// NewPlannerMetrics registers the planning metric set on reg.
func NewPlannerMetrics(reg *Registry) *PlannerMetrics {
	return &PlannerMetrics{
		Registry:     reg,
		Plans:        reg.Counter("decoplan_plans_total", "Decompression plans computed."),
		PlanErrors:   reg.Counter("decoplan_plan_errors_total", "Planning requests rejected or aborted, by error kind.", "kind"),
		CacheHits:    reg.Counter("decoplan_plan_cache_hits_total", "Plan requests served from the cache."),
		HTTPRequests: reg.Counter("decoplan_http_requests_total", "HTTP requests by route pattern and status code.", "route", "code"),
		DecoMinutes:  reg.Gauge("decoplan_deco_minutes", "Total decompression minutes of the most recent plan."),
	}
}
