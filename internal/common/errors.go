// Package common defines shared constants and sentinel errors used across
// client layers of bfadmin. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors (no response from the backend).
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors: the backend rejected the stored credential.
	ErrUnauthorized = errors.New("unauthorized")

	// Client-side input errors, raised before any request is issued.
	ErrValidation = errors.New("validation error")

	// An identical action is still waiting for the backend.
	ErrInFlight = errors.New("action already in progress")

	// The action requires an authenticated session.
	ErrNotLoggedIn = errors.New("not logged in")

	// The action requires the admin role.
	ErrForbidden = errors.New("admin role required")
)
