package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// ErrMissingSecret is returned when a service is built without a secret.
var ErrMissingSecret = errors.New("jwt: secret is required")

// Config configures one token kind.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is the signing algorithm (default HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`
	// Issuer is the optional "iss" claim, checked on parse when set.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// TTL is the lifetime applied by Issue.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// Leeway tolerates clock skew on exp and iat.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL <= 0 {
		c.TTL = 15 * time.Minute
	}
}

// Validate checks the secret and algorithm.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrMissingSecret
	}
	switch c.Method {
	case HS256, HS384, HS512:
		return nil
	default:
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}
