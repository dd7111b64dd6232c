package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public FakeStore API
	DefaultBaseURL = "https://fakestoreapi.com"
	// DefaultTimeout bounds every catalog call
	DefaultTimeout = 10 * time.Second
	// DefaultMaxResponseSize caps response bodies (5MB)
	DefaultMaxResponseSize = 5 * 1024 * 1024
)

// ErrConfigInvalidBaseURL indicates a base URL that is not absolute http(s)
var ErrConfigInvalidBaseURL = errors.New("catalog: base URL must be an absolute http or https URL")

// Config holds the catalog API settings
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxResponseSize int64
}

// NewConfig creates a configuration with defaults for the given base URL
func NewConfig(baseURL string, timeout time.Duration) *Config {
	return &Config{
		BaseURL:         baseURL,
		Timeout:         timeout,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}

// Validate fills defaults and checks the base URL
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrConfigInvalidBaseURL, c.BaseURL)
	}
	return nil
}
