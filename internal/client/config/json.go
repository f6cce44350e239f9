package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bfadmin/internal/flagx"
	"github.com/dmitrijs2005/bfadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from zero values so a partial file only overrides what
// it names.
type JsonConfig struct {
	BackendURL          *string         `json:"backend_url"`
	SecureOrigin        *bool           `json:"secure_origin"`
	DataDir             *string         `json:"data_dir"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	RelayEndpoints      []string        `json:"relay_endpoints"`
	RelayAttemptTimeout *timex.Duration `json:"relay_attempt_timeout"`
	RelayMaxAttempts    *int            `json:"relay_max_attempts"`
	RelayForwardCreds   *bool           `json:"relay_forward_credentials"`
	AdminLogsLimit      *int            `json:"admin_logs_limit"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendURL != nil {
		cfg.FileBackendURL = *jc.BackendURL
	}
	if jc.SecureOrigin != nil {
		cfg.SecureOrigin = *jc.SecureOrigin
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RelayEndpoints != nil {
		cfg.RelayEndpoints = jc.RelayEndpoints
	}
	if jc.RelayAttemptTimeout != nil {
		cfg.RelayAttemptTimeout = jc.RelayAttemptTimeout.Duration
	}
	if jc.RelayMaxAttempts != nil {
		cfg.RelayMaxAttempts = *jc.RelayMaxAttempts
	}
	if jc.RelayForwardCreds != nil {
		cfg.RelayForwardCredentials = *jc.RelayForwardCreds
	}
	if jc.AdminLogsLimit != nil {
		cfg.AdminLogsLimit = *jc.AdminLogsLimit
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
