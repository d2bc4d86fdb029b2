// Package jwt signs and parses HMAC tokens for a caller-defined claims type.
//
// The claims type embeds jwt.RegisteredClaims and may implement Stamper so
// Issue can set iat and exp:
//
//	type AccessClaims struct {
//	    jwt.RegisteredClaims
//	    Roles []string `json:"roles"`
//	}
//
//	svc, err := jwt.NewService(cfg, func() *AccessClaims { return &AccessClaims{} })
//	token, exp, err := svc.Issue(&AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// RegisteredClaims re-exports the standard claim set so callers need only
// this package.
type RegisteredClaims = gojwt.RegisteredClaims

// NewNumericDate re-exports gojwt.NewNumericDate.
var NewNumericDate = gojwt.NewNumericDate

// ErrExpired reports a token past its exp claim.
var ErrExpired = gojwt.ErrTokenExpired

// Stamper is implemented by claims that accept issue and expiry times.
type Stamper interface {
	Stamp(issuedAt, expiresAt time.Time, issuer string)
}

// Service issues and parses tokens with claims of type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
	now      func() time.Time
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// NewService creates a Service. newEmpty returns a fresh claims value for Parse.
func NewService[T gojwt.Claims](cfg Config, newEmpty func() T, opts ...Option) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := serviceOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service[T]{cfg: cfg, newEmpty: newEmpty, now: o.now}, nil
}

// TTL returns the configured lifetime.
func (s *Service[T]) TTL() time.Duration { return s.cfg.TTL }

// Sign signs claims as they are.
func (s *Service[T]) Sign(claims T) (string, error) {
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Issue stamps claims with now and now+TTL when they implement Stamper,
// signs them, and returns the expiry.
func (s *Service[T]) Issue(claims T) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TTL)
	if st, ok := any(claims).(Stamper); ok {
		st.Stamp(now, exp, s.cfg.Issuer)
	}
	token, err := s.Sign(claims)
	return token, exp, err
}

// Parse verifies the signature, algorithm, expiry and issuer and returns the claims.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.cfg.Leeway))
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
