package gemini

import (
	"fmt"
	"time"
)

// Default models and limits.
const (
	DefaultSTTModel  = "gemini-2.5-flash"
	DefaultTextModel = "gemini-2.5-flash"
	DefaultTTSModel  = "gemini-2.5-flash-preview-tts"

	DefaultSTTTimeout  = 45 * time.Second
	DefaultTextTimeout = 30 * time.Second
	DefaultTTSTimeout  = 60 * time.Second

	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 256
)

// Config configures the Gemini backends.
type Config struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	STTModel  string `yaml:"stt_model" mapstructure:"stt_model"`
	TextModel string `yaml:"text_model" mapstructure:"text_model"`
	TTSModel  string `yaml:"tts_model" mapstructure:"tts_model"`

	STTTimeout  time.Duration `yaml:"stt_timeout" mapstructure:"stt_timeout"`
	TextTimeout time.Duration `yaml:"text_timeout" mapstructure:"text_timeout"`
	TTSTimeout  time.Duration `yaml:"tts_timeout" mapstructure:"tts_timeout"`

	Temperature     float32 `yaml:"temperature" mapstructure:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`

	// BreakerFailures consecutive upstream failures open an adapter's circuit.
	BreakerFailures int           `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" mapstructure:"breaker_timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.STTModel == "" {
		c.STTModel = DefaultSTTModel
	}
	if c.TextModel == "" {
		c.TextModel = DefaultTextModel
	}
	if c.TTSModel == "" {
		c.TTSModel = DefaultTTSModel
	}
	if c.STTTimeout <= 0 {
		c.STTTimeout = DefaultSTTTimeout
	}
	if c.TextTimeout <= 0 {
		c.TextTimeout = DefaultTextTimeout
	}
	if c.TTSTimeout <= 0 {
		c.TTSTimeout = DefaultTTSTimeout
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.BreakerFailures <= 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
}

// Validate checks values that ApplyDefaults cannot repair. A missing API key
// is not a validation error: the service starts and reports 503 on use.
func (c *Config) Validate() error {
	if c.Temperature > 2 {
		return fmt.Errorf("gemini: temperature must be <= 2, got %v", c.Temperature)
	}
	return nil
}

// Configured reports whether an API key is present.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}
