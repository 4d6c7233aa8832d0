package config

import (
	"os"
	"strings"
	"time"
)

// APIConfig configures the sync server.
type APIConfig struct {
	Addr          string
	DatabaseURL   string
	APIKey        string
	SessionMaxAge time.Duration
	PruneSchedule string
}

// ClientConfig configures the player CLI.
type ClientConfig struct {
	APIBaseURL string
	APIKey     string
	Offline    bool
	SyncPolicy string
	Volatility string
	CacheDir   string
	QuizDeck   string
	Scenarios  string
}

// LoadAPIFromEnv reads the server configuration. Addr falls back to :8080;
// an empty DATABASE_URL selects the in-memory store, which is only useful
// for local development.
func LoadAPIFromEnv() APIConfig {
	addr := strings.TrimSpace(os.Getenv("PORT"))
	if addr != "" && !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	if addr == "" {
		addr = envDefault("FINQUEST_API_ADDR", ":8080")
	}
	return APIConfig{
		Addr:          addr,
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		APIKey:        strings.TrimSpace(os.Getenv("FINQUEST_API_KEY")),
		SessionMaxAge: envDurationDefault("FINQUEST_SESSION_MAX_AGE", 30*24*time.Hour),
		PruneSchedule: envDefault("FINQUEST_PRUNE_SCHEDULE", "@hourly"),
	}
}

// LoadClientFromEnv reads the CLI configuration. An empty base URL means
// offline mode: local cache only, no remote mirror.
func LoadClientFromEnv() ClientConfig {
	base := strings.TrimRight(strings.TrimSpace(os.Getenv("FINQUEST_API_BASE_URL")), "/")
	return ClientConfig{
		APIBaseURL: base,
		APIKey:     strings.TrimSpace(os.Getenv("FINQUEST_API_KEY")),
		Offline:    base == "",
		SyncPolicy: envSyncPolicyDefault(),
		Volatility: envVolatilityDefault(),
		CacheDir:   strings.TrimSpace(os.Getenv("FINQUEST_CACHE_DIR")),
		QuizDeck:   strings.TrimSpace(os.Getenv("FINQUEST_QUIZ_DECK")),
		Scenarios:  strings.TrimSpace(os.Getenv("FINQUEST_SCENARIOS")),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envSyncPolicyDefault() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FINQUEST_SYNC_POLICY"))) {
	case "serial":
		return "serial"
	default:
		return "fireforget"
	}
}

func envVolatilityDefault() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("FINQUEST_VOLATILITY"))); v {
	case "calm", "mor", "wild":
		return v
	default:
		return "mor"
	}
}
