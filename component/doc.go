// Package component manages the lifecycle of the service's infrastructure
// pieces (storage, redis, telemetry, background workers, HTTP server).
//
// Components start in registration order and stop in reverse order, so
// dependencies must be registered first.
package component
