package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultBackendHost = "localhost:14137"
	DefaultAdminLogs   = 200
)

// Config holds runtime settings for the bfadmin client.
//
// BackendURL (-a), EnvBackendURL (BF_BACKEND_URL) and FileBackendURL (JSON
// backend_url) are kept apart: they sit at different levels of the base URL
// priority chain (see ResolveBaseURL).
type Config struct {
	BackendURL     string
	EnvBackendURL  string
	FileBackendURL string
	SecureOrigin   bool

	DataDir        string
	RequestTimeout time.Duration

	RelayEndpoints      []string
	RelayAttemptTimeout time.Duration
	RelayMaxAttempts    int

	RelayForwardCredentials bool

	AdminLogsLimit int

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = ""
	c.EnvBackendURL = ""
	c.FileBackendURL = ""
	c.SecureOrigin = false
	c.DataDir = defaultDataDir()
	c.RequestTimeout = 30 * time.Second
	c.RelayEndpoints = nil
	c.RelayAttemptTimeout = 5 * time.Second
	c.RelayMaxAttempts = 3
	c.RelayForwardCredentials = false
	c.AdminLogsLimit = DefaultAdminLogs
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (.env included) and command-line flags.
// Later sources take precedence over earlier ones; flags only override what
// was actually passed.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}

// ResolveBaseURL picks the backend base URL once at startup. Priority:
// the -a flag, BF_BACKEND_URL, JSON backend_url, the persisted manual
// override, and finally a default whose scheme follows the origin.
func (c *Config) ResolveBaseURL(persisted string) string {
	for _, u := range []string{c.BackendURL, c.EnvBackendURL, c.FileBackendURL, persisted} {
		if u = strings.TrimSpace(u); u != "" {
			return strings.TrimRight(u, "/")
		}
	}
	return c.DefaultBaseURL()
}

// DefaultBaseURL mirrors the origin's scheme to avoid mixed content.
func (c *Config) DefaultBaseURL() string {
	scheme := "http"
	if c.SecureOrigin {
		scheme = "https"
	}
	return scheme + "://" + DefaultBackendHost
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bfadmin")
	}
	return ".bfadmin"
}
