// Package services holds the client's application logic on top of the
// backend API.
//
//   - State is the in-memory session: the signed-in user and the cached
//     collections (whitelists, resellers, activity logs, stats, pricing).
//   - ViewSync reloads those collections from the backend and publishes
//     changes to subscribers.
//   - AuthService signs users in and out and restores a stored session.
//   - Actions runs mutations with validation, an in-flight guard and a
//     follow-up refresh.
//
// A backend answer classified as unauthorized anywhere in this package ends
// the session: the stored token is cleared and State is reset.
package services
