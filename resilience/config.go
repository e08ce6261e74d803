package resilience

import (
	"fmt"
	"time"
)

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that open the circuit.
	MaxFailures int `mapstructure:"max_failures"`
	// OpenTimeout is how long the circuit stays open before a trial call.
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
	// HalfOpenMaxCalls is the number of trial calls allowed while half-open.
	HalfOpenMaxCalls int `mapstructure:"half_open_max_calls"`
}

// RetryConfig configures retries of failed lookups.
type RetryConfig struct {
	// MaxAttempts includes the first call. 1 disables retries.
	MaxAttempts int `mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration `mapstructure:"max_backoff"`
	// BackoffFactor multiplies the delay after each attempt.
	BackoffFactor float64 `mapstructure:"backoff_factor"`
}

// Config holds user store protection settings.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	Name    string        `mapstructure:"name"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	Retry   RetryConfig   `mapstructure:"retry"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "users"
	}
	if c.Breaker.MaxFailures <= 0 {
		c.Breaker.MaxFailures = 5
	}
	if c.Breaker.OpenTimeout <= 0 {
		c.Breaker.OpenTimeout = 30 * time.Second
	}
	if c.Breaker.HalfOpenMaxCalls <= 0 {
		c.Breaker.HalfOpenMaxCalls = 1
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 2
	}
	if c.Retry.InitialBackoff <= 0 {
		c.Retry.InitialBackoff = 50 * time.Millisecond
	}
	if c.Retry.MaxBackoff <= 0 {
		c.Retry.MaxBackoff = time.Second
	}
	if c.Retry.BackoffFactor <= 0 {
		c.Retry.BackoffFactor = 2
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts > 10 {
		return fmt.Errorf("resilience.retry.max_attempts must be at most 10 (got: %d)", c.Retry.MaxAttempts)
	}
	if c.Retry.BackoffFactor < 1 {
		return fmt.Errorf("resilience.retry.backoff_factor must be >= 1 (got: %g)", c.Retry.BackoffFactor)
	}
	if c.Retry.MaxBackoff < c.Retry.InitialBackoff {
		return fmt.Errorf("resilience.retry.max_backoff must be >= initial_backoff")
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
func (c *Config) Describe() string {
	return fmt.Sprintf("%s breaker=%d/%s retries=%d", c.Name, c.Breaker.MaxFailures, c.Breaker.OpenTimeout, c.Retry.MaxAttempts-1)
}
