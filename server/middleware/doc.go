// Package middleware holds the Gin middleware of the HTTP server. Every
// rejection is written as an errors.ErrorResponse body.
package middleware
