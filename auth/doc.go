// Package auth holds the authentication contracts shared by the HTTP
// middleware and the session service.
//
// Subpackages:
//
//   - auth/jwt      signs and parses HMAC JWTs for a caller-defined claims type
//   - auth/password verifies configured passwords (bcrypt hash or plaintext)
//   - auth/authctx  carries validated claims through a request context
//
// Authorization (role to permission mapping) lives in the authz package.
package auth
