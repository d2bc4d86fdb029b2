package session

import (
	"slices"
	"time"

	"github.com/kbukum/speechturn/auth"
	"github.com/kbukum/speechturn/auth/jwt"
)

// Token types, carried in the "type" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeAudio   = "audio"
)

var (
	_ auth.ScopeHolder = (*Claims)(nil)
	_ auth.Subject     = (*Claims)(nil)
)

// Claims is the payload of every token this package issues. The jti lives in
// RegisteredClaims.ID.
type Claims struct {
	jwt.RegisteredClaims
	Roles  []string `json:"roles,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
	Type   string   `json:"type"`
	File   string   `json:"file,omitempty"`
}

// Stamp implements jwt.Stamper.
func (c *Claims) Stamp(issuedAt, expiresAt time.Time, issuer string) {
	c.IssuedAt = jwt.NewNumericDate(issuedAt)
	c.ExpiresAt = jwt.NewNumericDate(expiresAt)
	if issuer != "" {
		c.Issuer = issuer
	}
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool { return slices.Contains(c.Scopes, scope) }

// SubjectID returns the user id.
func (c *Claims) SubjectID() string { return c.Subject }

// RoleNames returns the user's roles.
func (c *Claims) RoleNames() []string { return c.Roles }
