package session

import (
	"fmt"
	"time"
)

// Scopes granted at login.
const (
	ScopeSpeechWrite = "speech:write"
	ScopeSpeechRead  = "speech:read"
)

// Roles assigned at login.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Defaults for Config.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
	DefaultAudioTTL   = 10 * time.Minute
)

// Config holds token secrets, lifetimes and the login credential.
type Config struct {
	AccessSecret  string `yaml:"access_secret" mapstructure:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret" mapstructure:"refresh_secret"`
	// AudioSecret signs audio tokens. Empty falls back to AccessSecret.
	AudioSecret string `yaml:"audio_secret" mapstructure:"audio_secret"`
	Issuer      string `yaml:"issuer" mapstructure:"issuer"`

	AccessTTL  time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`
	AudioTTL   time.Duration `yaml:"audio_ttl" mapstructure:"audio_ttl"`

	DefaultUser string `yaml:"default_user" mapstructure:"default_user"`
	// DefaultPasswordHash is a bcrypt hash and wins over DefaultPassword.
	DefaultPasswordHash string   `yaml:"default_password_hash" mapstructure:"default_password_hash"`
	DefaultPassword     string   `yaml:"default_password" mapstructure:"default_password"`
	AdminUsers          []string `yaml:"admin_users" mapstructure:"admin_users"`
	Scopes              []string `yaml:"scopes" mapstructure:"scopes"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.AccessTTL <= 0 {
		c.AccessTTL = DefaultAccessTTL
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = DefaultRefreshTTL
	}
	if c.AudioTTL <= 0 {
		c.AudioTTL = DefaultAudioTTL
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{ScopeSpeechWrite, ScopeSpeechRead}
	}
}

// Validate checks invariants that hold even when secrets are absent. Missing
// secrets are not a startup error: the auth endpoints answer 503 instead.
func (c *Config) Validate() error {
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("session: access and refresh secrets must differ")
	}
	if c.DefaultPasswordHash != "" && c.DefaultUser == "" {
		return fmt.Errorf("session: default_password_hash set without default_user")
	}
	return nil
}

// Configured reports whether access and refresh secrets are set.
func (c *Config) Configured() bool {
	return c.AccessSecret != "" && c.RefreshSecret != ""
}

func (c *Config) audioSecret() string {
	if c.AudioSecret != "" {
		return c.AudioSecret
	}
	return c.AccessSecret
}

// Describe summarizes the config for the startup log.
func (c *Config) Describe() string {
	if !c.Configured() {
		return "disabled (secrets not configured)"
	}
	cred := "none"
	switch {
	case c.DefaultPasswordHash != "":
		cred = "bcrypt"
	case c.DefaultPassword != "":
		cred = "plaintext"
	}
	return fmt.Sprintf("HS256 access=%s refresh=%s audio=%s credential=%s", c.AccessTTL, c.RefreshTTL, c.AudioTTL, cred)
}
