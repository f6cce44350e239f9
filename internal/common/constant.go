// Package common contains shared constants and sentinel errors used across
// bfadmin components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header value.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a client request with backend logs.
	RequestIDHeaderName = "X-Request-ID"

	// TokenKey is the session store key for the bearer credential.
	TokenKey = "bf_token"

	// BackendURLKey is the session store key for a manual base URL override.
	BackendURLKey = "bf_backend_url"
)
