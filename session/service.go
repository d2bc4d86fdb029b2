package session

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/speechturn/auth"
	"github.com/kbukum/speechturn/auth/jwt"
	"github.com/kbukum/speechturn/auth/password"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/provider"
)

var _ auth.TokenValidator = (*Service)(nil)

// RefreshRecord is what the refresh store keeps per live jti.
type RefreshRecord struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"`
}

// Service issues and checks credentials.
type Service struct {
	cfg     Config
	access  *jwt.Service[*Claims]
	refresh *jwt.Service[*Claims]
	audio   *jwt.Service[*Claims]
	store   provider.ContextStore[RefreshRecord]
	now     func() time.Time
	log     *logger.Logger

	// rotate serializes refresh rotation so one jti is redeemed once per process.
	rotate sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. A nil store keeps refresh records in memory.
// Token kinds whose secret is missing stay disabled and their operations
// return a not-configured error.
func New(cfg Config, store provider.ContextStore[RefreshRecord], log *logger.Logger, opts ...Option) *Service {
	cfg.ApplyDefaults()
	if store == nil {
		store = provider.NewMemoryStore[RefreshRecord]()
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &Service{cfg: cfg, store: store, now: time.Now, log: log.WithComponent("session")}
	for _, opt := range opts {
		opt(s)
	}

	s.access = s.tokenService(cfg.AccessSecret, cfg.AccessTTL)
	s.refresh = s.tokenService(cfg.RefreshSecret, cfg.RefreshTTL)
	s.audio = s.tokenService(cfg.audioSecret(), cfg.AudioTTL)
	return s
}

func (s *Service) tokenService(secret string, ttl time.Duration) *jwt.Service[*Claims] {
	if secret == "" {
		return nil
	}
	svc, err := jwt.NewService(jwt.Config{Secret: secret, TTL: ttl, Issuer: s.cfg.Issuer},
		func() *Claims { return &Claims{} }, jwt.WithClock(s.now))
	if err != nil {
		s.log.Error("token service disabled", logger.ErrorFields("jwt", err))
		return nil
	}
	return svc
}

// Configured reports whether login and access validation are available.
func (s *Service) Configured() bool {
	return s.access != nil && s.refresh != nil
}

// AudioConfigured reports whether audio tokens can be issued.
func (s *Service) AudioConfigured() bool { return s.audio != nil }

func (s *Service) requireSecrets() error {
	if !s.Configured() {
		return apperrors.NotConfigured("auth secrets")
	}
	return nil
}

// RolesFor returns the roles granted to username at login.
func (s *Service) RolesFor(username string) []string {
	if slices.Contains(s.cfg.AdminUsers, username) {
		return []string{RoleAdmin, RoleUser}
	}
	return []string{RoleUser}
}

// Login checks the configured credential and issues a token pair.
func (s *Service) Login(ctx context.Context, username, pass string) (*TokenPair, error) {
	if err := s.requireSecrets(); err != nil {
		return nil, err
	}
	stored := s.cfg.DefaultPasswordHash
	if stored == "" {
		stored = s.cfg.DefaultPassword
	}
	if s.cfg.DefaultUser == "" || stored == "" {
		return nil, apperrors.NotConfigured("auth credentials")
	}
	if s.cfg.DefaultPasswordHash == "" {
		s.log.Warn("using plaintext login password; set default_password_hash")
	}
	if username != s.cfg.DefaultUser || password.Verify(pass, stored) != nil {
		s.log.Info("login rejected", map[string]interface{}{logger.FieldUserID: username})
		return nil, apperrors.Unauthorized("Invalid username or password.")
	}
	return s.issue(ctx, username, s.RolesFor(username), s.cfg.Scopes)
}

func (s *Service) issue(ctx context.Context, userID string, roles, scopes []string) (*TokenPair, error) {
	access, accessExp, err := s.access.Issue(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Roles:            roles,
		Scopes:           scopes,
		Type:             TypeAccess,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	jti := strings.ReplaceAll(uuid.NewString(), "-", "")
	refresh, refreshExp, err := s.refresh.Issue(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID, ID: jti},
		Roles:            roles,
		Scopes:           scopes,
		Type:             TypeRefresh,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	rec := &RefreshRecord{UserID: userID, ExpiresAt: refreshExp}
	if err := s.store.Save(ctx, jti, rec, refreshExp.Sub(s.now())); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		TokenType:        "bearer",
	}, nil
}

// Refresh redeems a refresh token once and issues a new pair with the same
// subject, roles and scopes.
func (s *Service) Refresh(ctx context.Context, token string) (*TokenPair, error) {
	if err := s.requireSecrets(); err != nil {
		return nil, err
	}
	claims, err := s.refresh.Parse(token)
	if err != nil {
		return nil, tokenError(err)
	}
	if claims.Type != TypeRefresh || claims.ID == "" {
		return nil, apperrors.Unauthorized("Invalid refresh token type.")
	}

	s.rotate.Lock()
	defer s.rotate.Unlock()
	rec, err := s.store.Load(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if rec == nil {
		return nil, apperrors.Unauthorized("Refresh token revoked.")
	}
	if err := s.store.Delete(ctx, claims.ID); err != nil {
		return nil, apperrors.Internal(err)
	}
	if rec.ExpiresAt.Before(s.now()) {
		return nil, apperrors.TokenExpired()
	}
	return s.issue(ctx, claims.Subject, claims.Roles, claims.Scopes)
}

// Logout revokes a refresh token. Invalid tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.requireSecrets(); err != nil {
		return err
	}
	claims, err := s.refresh.Parse(token)
	if err != nil || claims.ID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, claims.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Authenticate validates an access token and returns its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	if err := s.requireSecrets(); err != nil {
		return nil, err
	}
	claims, err := s.access.Parse(token)
	if err != nil {
		return nil, tokenError(err)
	}
	if claims.Type != TypeAccess {
		return nil, apperrors.Unauthorized("Invalid access token type.")
	}
	return claims, nil
}

// ValidateToken implements auth.TokenValidator for the HTTP middleware.
func (s *Service) ValidateToken(token string) (any, error) {
	return s.Authenticate(token)
}

// SignAudio issues a token bound to one cached audio file.
func (s *Service) SignAudio(filename string) (string, error) {
	if s.audio == nil {
		return "", apperrors.NotConfigured("audio token secret")
	}
	token, _, err := s.audio.Issue(&Claims{Type: TypeAudio, File: filename})
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return token, nil
}

// VerifyAudio checks that token is a live audio token for filename.
func (s *Service) VerifyAudio(token, filename string) error {
	if s.audio == nil {
		return apperrors.NotConfigured("audio token secret")
	}
	claims, err := s.audio.Parse(token)
	if err != nil || claims.Type != TypeAudio || claims.File != filename {
		return apperrors.Unauthorized("Invalid audio token.")
	}
	return nil
}

func tokenError(err error) error {
	if errors.Is(err, jwt.ErrExpired) {
		return apperrors.TokenExpired()
	}
	return apperrors.InvalidToken()
}
