// Package config loads runtime configuration for the bfadmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables, with a .env file in the working directory
//     loaded first (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL override
//	-s          the client acts on behalf of a secure (https) origin
//	-d string   data directory holding the session database
//	-t int      request timeout in seconds (0 disables)
//
// Environment
//
//	BF_BACKEND_URL       backend base URL
//	BF_SECURE_ORIGIN     true/false
//	BF_DATA_DIR          data directory
//	BF_LOG_LEVEL         debug, info, warn, error
//	BF_LOG_FORMAT        text, json
//	BF_RELAY_ENDPOINTS   comma separated relay templates containing {url}
//
// # JSON schema
//
//	{
//	  "backend_url": "http://10.0.0.5:14137",
//	  "secure_origin": false,
//	  "data_dir": "/home/me/.config/bfadmin",
//	  "request_timeout": "30s",
//	  "relay_endpoints": ["https://relay.example/?url={url}"],
//	  "relay_attempt_timeout": "5s",
//	  "relay_max_attempts": 3,
//	  "admin_logs_limit": 200,
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// The backend base URL itself is resolved with (*Config).ResolveBaseURL once
// the persisted manual override has been read from the session store.
package config
