// Package session persists the bearer credential and the manual backend URL
// override across runs.
//
// Values live in the metadata table of a local SQLite database (see
// OpenDatabase). The token is scoped to the backend origin it was issued
// by, so switching backends never sends one backend's token to another.
// The base URL override is global.
//
// The token is opaque and trusted until the backend rejects it; no expiry is
// enforced here. Describe offers an unverified peek at JWT-shaped tokens for
// display only.
package session
