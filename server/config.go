package server

import (
	"fmt"
	"time"

	"github.com/kbukum/speechturn/server/middleware"
	"github.com/kbukum/speechturn/util"
)

// DefaultMaxBodyBytes applies when MaxBodySize is empty or unparseable.
const DefaultMaxBodyBytes = 12 << 20

// Config holds HTTP server settings.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// PublicURL is the externally reachable base used for audio links.
	PublicURL       string        `yaml:"public_url" mapstructure:"public_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	// MaxBodySize caps request bodies, e.g. "12MB".
	MaxBodySize string                     `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS        middleware.CORSConfig      `yaml:"cors" mapstructure:"cors"`
	RateLimit   middleware.RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ApplyDefaults sets defaults for unset fields. WriteTimeout leaves room for
// a slow turn: transcription and interpretation retries run before the
// synthesis deadline.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 2 * time.Minute
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "12MB"
	}
	c.CORS.ApplyDefaults()
	c.RateLimit.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("server.rate_limit.requests_per_minute must be non-negative")
	}
	return nil
}

// BaseURL returns PublicURL, or http://<host>:<port> when unset.
func (c *Config) BaseURL() string {
	if c.PublicURL != "" {
		return c.PublicURL
	}
	host := c.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Port)
}

// MaxBodyBytes returns MaxBodySize in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return util.ParseSize(c.MaxBodySize, DefaultMaxBodyBytes)
}
