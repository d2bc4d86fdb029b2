package auth

// TokenValidator validates a bearer token and returns its claims. The
// middleware stores the result with authctx.Set.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts a function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}

// ScopeHolder is implemented by claims that carry OAuth-style scopes.
type ScopeHolder interface {
	HasScope(scope string) bool
}

// Subject is implemented by claims that identify a user.
type Subject interface {
	SubjectID() string
	RoleNames() []string
}
