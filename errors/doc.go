// Package errors defines the service error taxonomy.
//
// Every failure that reaches an HTTP client is an *AppError carrying a
// machine-readable code, a client-safe message, a retryable flag and the
// HTTP status it maps to. Constructors group into the categories the
// speech-turn pipeline distinguishes: input errors (400/413), upstream
// errors (502), rate limiting (429), configuration errors (503) and the
// authentication family (401/403).
package errors
