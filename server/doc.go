// Package server runs the HTTP surface on Gin behind an h2c handler so
// HTTP/1.1 and cleartext HTTP/2 clients share one port.
//
// Middleware (server/middleware) covers panic recovery, request ids, CORS,
// body limits, request logging, bearer authentication with scope checks and
// a per-user sliding-window rate limit. System endpoints (server/endpoint)
// are /health, /ready, /live and /info.
package server
