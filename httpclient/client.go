// Package httpclient builds the *http.Client used for model API calls.
package httpclient

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/speechturn/security"
)

// Config tunes the outbound transport. Per-call deadlines come from the
// request context; Timeout is only a backstop.
type Config struct {
	Timeout             time.Duration `yaml:"timeout" mapstructure:"timeout"`
	DialTimeout         time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	// ProxyURL overrides the environment proxy settings.
	ProxyURL string              `yaml:"proxy_url" mapstructure:"proxy_url"`
	TLS      *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 16
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = 90 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return fmt.Errorf("httpclient: proxy_url: %w", err)
		}
	}
	return c.TLS.Validate()
}

// New returns an *http.Client with a dedicated transport.
func New(cfg Config) (*http.Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	transport.IdleConnTimeout = cfg.IdleConnTimeout
	if cfg.ProxyURL != "" {
		proxy, _ := url.Parse(cfg.ProxyURL)
		transport.Proxy = http.ProxyURL(proxy)
	}
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{Transport: transport, Timeout: cfg.Timeout}, nil
}
