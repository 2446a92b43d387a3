package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultIdentityHeader carries the raw user identifier next to the bearer.
	DefaultIdentityHeader = "X-User-ID"
	// ContentTypeJSON is the default Content-Type of every request.
	ContentTypeJSON = "application/json"

	defaultName = "backend"
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs, spans and component summaries.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout is handed to the underlying http.Client. Zero means the
	// transport imposes no deadline; callers bound requests with ctx.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are default headers applied to all requests.
	// Content-Type: application/json is added when absent.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// IdentityHeader names the header that carries the user id next to the
	// bearer credential. Defaults to X-User-ID.
	IdentityHeader string `yaml:"identity_header" mapstructure:"identity_header"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields. The Headers map is copied with
// canonical keys so the caller's map is left alone.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.IdentityHeader == "" {
		c.IdentityHeader = DefaultIdentityHeader
	}
	headers := canonicalHeaders(c.Headers, 1)
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = ContentTypeJSON
	}
	c.Headers = headers
}

// Validate checks that the configuration is valid. An empty BaseURL is
// accepted: a missing environment value is the deployment's problem.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: invalid base_url %q", c.BaseURL)
		}
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return nil
}
