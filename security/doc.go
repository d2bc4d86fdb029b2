// Package security holds the client TLS settings shared by outbound
// transports: the model API HTTP client and the Redis connection.
package security
