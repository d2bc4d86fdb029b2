// Package session issues and validates the service's credentials: access
// and refresh tokens for API callers, and short-lived audio tokens that
// authorize fetching one cached audio file.
//
// Refresh tokens are single use. Each carries a jti recorded in a
// provider.ContextStore; refreshing deletes the old jti and records a new one,
// and logging out deletes it. The store is process memory by default and
// Redis when several instances share sessions.
package session
