// Package client talks to the whitelist backend over REST/JSON.
//
// # Overview
//
//  1. Client is the transport-agnostic API contract used by the services
//     layer: login, the current user, stats, pricing, whitelists, resellers
//     and activity logs.
//  2. HTTPClient implements it. Every request goes through HTTPClient.Do,
//     which merges headers over a JSON default, attaches the stored bearer
//     token, tags the request with an X-Request-ID and normalises failures
//     into *APIError.
//  3. RelayPolicy describes the optional relay fallback used when a secure
//     origin talks to a plain-http backend and the direct request cannot
//     reach it.
//
// # Error Handling
//
// Every failure is an *APIError carrying the HTTP status (0 when no response
// arrived) and a human readable message. It unwraps to common.ErrUnavailable
// for transport failures and to common.ErrUnauthorized when the backend
// rejected the credential, so callers can use errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honour cancellation; the relay fallback additionally
// bounds each attempt with its own timeout.
package client
