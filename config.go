package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lg/fitpal-go-api/narrative"
)

// appConfig is read once at startup from the environment (after .env is loaded).
type appConfig struct {
	Port        string
	GinMode     string
	DBURL       string // empty disables login and bearer-token auth
	CORSOrigins []string

	OpenAIKey            string // empty disables narrative generation
	OpenAIBaseURL        string
	LLMModel             string
	NarrativeTimeout     time.Duration
	NarrativeConcurrency int
}

// loadConfig reads appConfig from the environment, applying defaults for unset keys.
// Malformed numbers or durations are errors rather than silent defaults.
func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Port:          getEnvOrDefault("PORT", "3000"),
		GinMode:       getEnvOrDefault("GIN_MODE", "debug"),
		DBURL:         os.Getenv("DB_URL"),
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", narrative.DefaultBaseURL),
		LLMModel:      getEnvOrDefault("LLM_MODEL", narrative.DefaultModel),
	}

	var err error
	if cfg.NarrativeTimeout, err = getEnvDuration("NARRATIVE_TIMEOUT", 30*time.Second); err != nil {
		return appConfig{}, err
	}
	if cfg.NarrativeConcurrency, err = getEnvInt("NARRATIVE_CONCURRENCY", 4); err != nil {
		return appConfig{}, err
	}
	if cfg.NarrativeConcurrency < 1 {
		return appConfig{}, fmt.Errorf("NARRATIVE_CONCURRENCY must be at least 1, got %d", cfg.NarrativeConcurrency)
	}
	return cfg, nil
}

/* ─── Env helpers ────────────────────────────────────────────────────── */

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
