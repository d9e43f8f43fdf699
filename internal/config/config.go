package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port              string
	GoogleMapsAPIKey  string
	HunterAPIKey      string
	DropcontactAPIKey string
	RocketReachAPIKey string
	FullEnrichAPIKey  string
	// FullEnrichQuota is the rolling call budget for the premium provider,
	// shared by every concurrent request.
	FullEnrichQuota   RateLimitConfig
	RateLimitProspect RateLimitConfig
	// InterCompanyDelay throttles the batch loop between two peer companies.
	InterCompanyDelay time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		HunterAPIKey:      os.Getenv("HUNTER_API_KEY"),
		DropcontactAPIKey: os.Getenv("DROPCONTACT_API_KEY"),
		RocketReachAPIKey: os.Getenv("ROCKETREACH_API_KEY"),
		FullEnrichAPIKey:  os.Getenv("FULLENRICH_API_KEY"),
		InterCompanyDelay: parseDuration(getEnv("INTER_COMPANY_DELAY", "500ms")),
	}

	quota, err := parseRateLimit(getEnv("FULLENRICH_QUOTA", "3/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid FULLENRICH_QUOTA value: %w", err)
	}
	cfg.FullEnrichQuota = quota

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_PROSPECT", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PROSPECT value: %w", err)
	}
	cfg.RateLimitProspect = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}
