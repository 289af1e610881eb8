package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Result limits for search/list tools.
	ResultLimit int
	MaxLimit    int

	// Resolved-schema cache settings.
	SchemaCacheEnabled       bool
	SchemaCacheMaxSize       int
	SchemaCacheTTL           time.Duration
	SchemaCacheSweepInterval time.Duration

	// Document loading.
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from SPECDEX_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		ResultLimit:              envInt("SPECDEX_RESULT_LIMIT", 100),
		MaxLimit:                 envInt("SPECDEX_MAX_LIMIT", 1000),
		SchemaCacheEnabled:       envBool("SPECDEX_SCHEMA_CACHE_ENABLED", true),
		SchemaCacheMaxSize:       envInt("SPECDEX_SCHEMA_CACHE_MAX_SIZE", 100),
		SchemaCacheTTL:           envDuration("SPECDEX_SCHEMA_CACHE_TTL", 15*time.Minute),
		SchemaCacheSweepInterval: envDuration("SPECDEX_SCHEMA_CACHE_SWEEP_INTERVAL", 60*time.Second),
		AllowPrivateIPs:          envBool("SPECDEX_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
