// ABOUTME: Shared API response models for the planning service
// ABOUTME: Error, health, and reference catalogue payloads

package models

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse reports service status
type HealthResponse struct {
	Status       string    `json:"status"`
	Model        string    `json:"model"`
	Version      string    `json:"version"`
	CacheEntries int       `json:"cache_entries"`
	Timestamp    time.Time `json:"timestamp"`
}

// GasPreset describes a selectable bottom gas
type GasPreset struct {
	Selector string `json:"selector"`
	Label    string `json:"label"`
	Mix      GasMix `json:"mix"`
}

// DecoPolicyInfo describes a selectable deco gas policy
type DecoPolicyInfo struct {
	Policy      string `json:"policy"`
	Description string `json:"description"`
}

// GasCatalog is the response for the gases reference endpoint
type GasCatalog struct {
	BottomGases  []GasPreset      `json:"bottom_gases"`
	DecoPolicies []DecoPolicyInfo `json:"deco_policies"`
}

// CompartmentInfo is one row of the ZH-L16C coefficient table
type CompartmentInfo struct {
	Compartment int     `json:"compartment"`
	Label       string  `json:"label"`
	N2HalfTime  float64 `json:"n2_half_time"`
	HeHalfTime  float64 `json:"he_half_time"`
	N2A         float64 `json:"n2_a"`
	N2B         float64 `json:"n2_b"`
	HeA         float64 `json:"he_a"`
	HeB         float64 `json:"he_b"`
}
