package app

import (
	"fmt"
	"time"

	"github.com/kbukum/speechturn/audiojob"
	"github.com/kbukum/speechturn/config"
	"github.com/kbukum/speechturn/encryption"
	"github.com/kbukum/speechturn/gemini"
	"github.com/kbukum/speechturn/httpclient"
	"github.com/kbukum/speechturn/observability"
	"github.com/kbukum/speechturn/redis"
	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/session"
	"github.com/kbukum/speechturn/speechturn"
	"github.com/kbukum/speechturn/storage"
)

// ServiceName names the binary, its config directory and its telemetry.
const ServiceName = "speechturn"

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          session.Config       `yaml:"auth" mapstructure:"auth"`
	Speech        speechturn.Options   `yaml:"speech" mapstructure:"speech"`
	Audio         AudioConfig          `yaml:"audio" mapstructure:"audio"`
	Jobs          JobsConfig           `yaml:"jobs" mapstructure:"jobs"`
	Gemini        gemini.Config        `yaml:"gemini" mapstructure:"gemini"`
	HTTPClient    httpclient.Config    `yaml:"http_client" mapstructure:"http_client"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// Permissions grants permission patterns per role, e.g.
	// support: ["audio_jobs:read_any"]. Empty gives admins audio_jobs:*.
	Permissions map[string][]string `yaml:"permissions" mapstructure:"permissions"`
}

// AudioConfig controls the synthesized audio cache.
type AudioConfig struct {
	// Prefix is the storage key prefix for cached files.
	Prefix        string        `yaml:"prefix" mapstructure:"prefix"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	// EncryptionKey seals cached files at rest when set.
	EncryptionKey       string               `yaml:"encryption_key" mapstructure:"encryption_key"`
	EncryptionAlgorithm encryption.Algorithm `yaml:"encryption_algorithm" mapstructure:"encryption_algorithm"`
}

// JobsConfig controls deferred audio job retention.
type JobsConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// EnvAliases maps config keys to the environment variable names used by
// existing deployments.
var EnvAliases = map[string]string{
	"gemini.api_key":             "GEMINI_API_KEY",
	"auth.access_secret":         "ACCESS_TOKEN_SECRET",
	"auth.refresh_secret":        "REFRESH_TOKEN_SECRET",
	"auth.audio_secret":          "AUDIO_TOKEN_SECRET",
	"auth.default_user":          "AUTH_DEFAULT_USER",
	"auth.default_password":      "AUTH_DEFAULT_PASSWORD",
	"auth.default_password_hash": "AUTH_DEFAULT_PASSWORD_HASH",
	"auth.admin_users":           "ADMIN_USERS",
	"server.public_url":          "PUBLIC_BASE_URL",
	"redis.addr":                 "REDIS_ADDR",
	"audio.encryption_key":       "AUDIO_ENCRYPTION_KEY",
}

// Load reads cmd/speechturn/config.yml, .env and the environment into a Config.
func Load(opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	opts = append([]config.LoaderOption{config.WithEnvAliases(EnvAliases)}, opts...)
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Speech.ApplyDefaults()
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = c.Server.PublicURL
	}
	if c.Audio.Prefix == "" {
		c.Audio.Prefix = "audio"
	}
	if c.Audio.TTL <= 0 {
		c.Audio.TTL = speechturn.DefaultAudioTTL
	}
	if c.Audio.SweepInterval <= 0 {
		c.Audio.SweepInterval = time.Minute
	}
	if c.Audio.EncryptionAlgorithm == "" {
		c.Audio.EncryptionAlgorithm = encryption.AlgorithmAESGCM
	}
	if c.Jobs.TTL <= 0 {
		c.Jobs.TTL = audiojob.DefaultTTL
	}
	c.Gemini.ApplyDefaults()
	c.HTTPClient.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section. Missing secrets and API keys are not
// errors: the affected routes answer 503 instead.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"auth", c.Auth.Validate},
		{"gemini", c.Gemini.Validate},
		{"http_client", c.HTTPClient.Validate},
		{"storage", c.Storage.Validate},
		{"redis", c.Redis.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}
	if !encryption.Valid(c.Audio.EncryptionAlgorithm) {
		return fmt.Errorf("audio.encryption_algorithm %q is not supported", c.Audio.EncryptionAlgorithm)
	}
	if c.Speech.MaxAudioBytes >= c.Server.MaxBodyBytes() {
		return fmt.Errorf("speech.max_audio_bytes (%d) must be below server.max_body_size", c.Speech.MaxAudioBytes)
	}
	return nil
}
