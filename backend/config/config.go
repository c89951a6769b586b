// ABOUTME: Configuration loader for the planning service
// ABOUTME: Loads settings from environment variables and an optional .env file with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int            // seconds, computed plans
	CORSAllowedOrigins []string       // allowed CORS origins (empty = block all cross-origin)
	TrustedProxies     []netip.Prefix // peers whose X-Forwarded-For is honoured (empty = none)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitPlan    int  // Requests per minute for planning endpoints (default: 60)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 300)

	// Comparison
	MaxCompareProfiles int // profiles per compare request (default: 8)
	CompareWorkers     int // parallel plans per compare request, 0 = GOMAXPROCS

	// Request limits, checked before planning
	MaxDepth      float64 // metres (default: 200)
	MaxBottomTime float64 // minutes (default: 480)
	MinRate       float64 // m/min for descent and ascent rates (default: 1)

	// Planning defaults applied to fields absent from a request body
	DefaultGFLow             float64
	DefaultGFHigh            float64
	DefaultDescentRate       float64
	DefaultAscentRate        float64
	DefaultDeepAscentRate    float64
	DefaultShallowAscentRate float64
	DefaultShallowThreshold  float64
	DefaultLastStop          int
	DefaultDecoO2Percent     float64
}

// Limits returns the dive size limits requests are checked against.
func (c *Config) Limits() services.Limits {
	return services.Limits{MaxDepth: c.MaxDepth, MaxBottomTime: c.MaxBottomTime, MinRate: c.MinRate}
}

// PlanDefaults returns the parameter template request bodies are decoded onto.
func (c *Config) PlanDefaults() models.DiveParameters {
	p := models.DefaultDiveParameters()
	p.GFLow = c.DefaultGFLow
	p.GFHigh = c.DefaultGFHigh
	p.DescentRate = c.DefaultDescentRate
	p.Ascent.Rate = c.DefaultAscentRate
	p.Ascent.DeepRate = c.DefaultDeepAscentRate
	p.Ascent.ShallowRate = c.DefaultShallowAscentRate
	p.Ascent.ShallowThreshold = c.DefaultShallowThreshold
	p.LastStopDepth = c.DefaultLastStop
	p.DecoO2Percent = c.DefaultDecoO2Percent
	return p
}

func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		slog.Debug("Loaded environment file", "path", envFile)
	}

	d := models.DefaultDiveParameters()
	limits := services.DefaultLimits()
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPlan:    getEnvInt("RATE_LIMIT_PLAN", 60),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 300),

		MaxCompareProfiles: getEnvInt("MAX_COMPARE_PROFILES", 8),
		CompareWorkers:     getEnvInt("COMPARE_WORKERS", 0),

		MaxDepth:      getEnvFloat("MAX_DEPTH", limits.MaxDepth),
		MaxBottomTime: getEnvFloat("MAX_BOTTOM_TIME", limits.MaxBottomTime),
		MinRate:       getEnvFloat("MIN_RATE", limits.MinRate),

		DefaultGFLow:             getEnvFloat("DEFAULT_GF_LOW", d.GFLow),
		DefaultGFHigh:            getEnvFloat("DEFAULT_GF_HIGH", d.GFHigh),
		DefaultDescentRate:       getEnvFloat("DEFAULT_DESCENT_RATE", d.DescentRate),
		DefaultAscentRate:        getEnvFloat("DEFAULT_ASCENT_RATE", d.Ascent.Rate),
		DefaultDeepAscentRate:    getEnvFloat("DEFAULT_DEEP_ASCENT_RATE", d.Ascent.DeepRate),
		DefaultShallowAscentRate: getEnvFloat("DEFAULT_SHALLOW_ASCENT_RATE", d.Ascent.ShallowRate),
		DefaultShallowThreshold:  getEnvFloat("DEFAULT_SHALLOW_THRESHOLD", d.Ascent.ShallowThreshold),
		DefaultLastStop:          getEnvInt("DEFAULT_LAST_STOP", d.LastStopDepth),
		DefaultDecoO2Percent:     getEnvFloat("DEFAULT_DECO_O2", d.DecoO2Percent),
	}

	proxies, err := parsePrefixes(getEnvStringList("TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_PLAN", cfg.RateLimitPlan},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.MaxCompareProfiles < 1 || cfg.MaxCompareProfiles > 64 {
		return nil, fmt.Errorf("MAX_COMPARE_PROFILES must be between 1 and 64, got %d", cfg.MaxCompareProfiles)
	}
	if cfg.CompareWorkers < 0 {
		return nil, fmt.Errorf("COMPARE_WORKERS must not be negative, got %d", cfg.CompareWorkers)
	}

	for _, limit := range []struct {
		name  string
		value float64
	}{
		{"MAX_DEPTH", cfg.MaxDepth},
		{"MAX_BOTTOM_TIME", cfg.MaxBottomTime},
		{"MIN_RATE", cfg.MinRate},
	} {
		if limit.value <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %v", limit.name, limit.value)
		}
	}

	if cfg.DefaultGFLow <= 0 || cfg.DefaultGFLow > cfg.DefaultGFHigh || cfg.DefaultGFHigh > 1 {
		return nil, fmt.Errorf("DEFAULT_GF_LOW/DEFAULT_GF_HIGH must satisfy 0 < low <= high <= 1, got %v/%v", cfg.DefaultGFLow, cfg.DefaultGFHigh)
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"DEFAULT_DESCENT_RATE", cfg.DefaultDescentRate},
		{"DEFAULT_ASCENT_RATE", cfg.DefaultAscentRate},
		{"DEFAULT_DEEP_ASCENT_RATE", cfg.DefaultDeepAscentRate},
		{"DEFAULT_SHALLOW_ASCENT_RATE", cfg.DefaultShallowAscentRate},
	} {
		if rate.value <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %v", rate.name, rate.value)
		}
	}
	if cfg.DefaultShallowThreshold < 0 {
		return nil, fmt.Errorf("DEFAULT_SHALLOW_THRESHOLD must not be negative, got %v", cfg.DefaultShallowThreshold)
	}
	if cfg.DefaultLastStop < 0 {
		return nil, fmt.Errorf("DEFAULT_LAST_STOP must not be negative, got %d", cfg.DefaultLastStop)
	}
	if cfg.DefaultDecoO2Percent <= 0 || cfg.DefaultDecoO2Percent > 100 {
		return nil, fmt.Errorf("DEFAULT_DECO_O2 must be in (0, 100], got %v", cfg.DefaultDecoO2Percent)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		// ParseFloat accepts "NaN" and "Inf", which no setting allows.
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(floatVal) && !math.IsInf(floatVal, 0) {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parsePrefixes accepts CIDR prefixes and bare addresses, which match only
// themselves.
func parsePrefixes(values []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, v := range values {
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
