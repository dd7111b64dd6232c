package backend

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the local order backend
	DefaultBaseURL = "http://localhost:5000"
	// DefaultTimeout bounds every backend call
	DefaultTimeout = 15 * time.Second
	// DefaultMaxResponseSize caps response bodies (10MB)
	DefaultMaxResponseSize = 10 * 1024 * 1024
)

// ErrConfigInvalidBaseURL indicates a base URL that is not absolute http(s)
var ErrConfigInvalidBaseURL = errors.New("backend: base URL must be an absolute http or https URL")

// Config holds the order backend connection settings
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:5000
	BaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
	// MaxResponseSize caps how much of a response body is read
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
