package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with BF_* environment variables. A .env file in
// the working directory is loaded first; variables already set in the
// process environment win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("BF_BACKEND_URL"); v != "" {
		cfg.EnvBackendURL = v
	}
	if v := os.Getenv("BF_SECURE_ORIGIN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureOrigin = b
		}
	}
	if v := os.Getenv("BF_RELAY_FORWARD_CREDENTIALS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RelayForwardCredentials = b
		}
	}
	if v := os.Getenv("BF_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("BF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BF_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("BF_RELAY_ENDPOINTS"); v != "" {
		cfg.RelayEndpoints = splitList(v)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
