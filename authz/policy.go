package authz

import "strings"

// Checker reports whether role holds permission.
type Checker interface {
	HasPermission(role, permission string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(role, permission string) bool

// HasPermission calls f.
func (f CheckerFunc) HasPermission(role, permission string) bool { return f(role, permission) }

// Policy is a static role to permission-pattern table.
type Policy struct {
	grants map[string][]string
}

// DefaultGrants gives admins every audio job permission.
func DefaultGrants() map[string][]string {
	return map[string][]string{"admin": {"audio_jobs:*"}}
}

// NewPolicy copies grants. An empty table falls back to DefaultGrants.
func NewPolicy(grants map[string][]string) *Policy {
	if len(grants) == 0 {
		grants = DefaultGrants()
	}
	p := &Policy{grants: make(map[string][]string, len(grants))}
	for role, patterns := range grants {
		p.grants[role] = append([]string(nil), patterns...)
	}
	return p
}

// HasPermission reports whether any pattern granted to role matches permission.
func (p *Policy) HasPermission(role, permission string) bool {
	for _, pattern := range p.grants[role] {
		if Match(pattern, permission) {
			return true
		}
	}
	return false
}

// AnyRole reports whether at least one of roles holds permission.
func AnyRole(c Checker, roles []string, permission string) bool {
	for _, role := range roles {
		if c.HasPermission(role, permission) {
			return true
		}
	}
	return false
}

// Match compares a grant pattern with a permission. Both sides split on the
// first ':'; each half matches literally or through "*". A bare "*" matches
// everything.
func Match(pattern, permission string) bool {
	if pattern == "*" || pattern == permission {
		return true
	}
	pr, pa, pok := strings.Cut(pattern, ":")
	rr, ra, rok := strings.Cut(permission, ":")
	if !pok || !rok {
		return false
	}
	return (pr == "*" || pr == rr) && (pa == "*" || pa == ra)
}
