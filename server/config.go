package server

import (
	"fmt"
	"strings"

	"github.com/kbukum/gatekit/validation"
)

// Config holds HTTP router configuration.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Realm is sent in Basic authentication challenges (default: "gatekit").
	Realm string `yaml:"realm" mapstructure:"realm"`
	// ProviderKey is set on tokens built from requests.
	ProviderKey string `yaml:"provider_key" mapstructure:"provider_key"`
	// APIPrefix is the path prefix of the authenticated group (default: "/api").
	APIPrefix string `yaml:"api_prefix" mapstructure:"api_prefix"`
	// HealthPath serves the unauthenticated health check (default: "/health").
	HealthPath string `yaml:"health_path" mapstructure:"health_path"`
	// MetricsPath serves Prometheus metrics when a handler is set (default: "/metrics").
	MetricsPath string `yaml:"metrics_path" mapstructure:"metrics_path"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Realm == "" {
		c.Realm = "gatekit"
	}
	if c.APIPrefix == "" {
		c.APIPrefix = "/api"
	}
	if c.HealthPath == "" {
		c.HealthPath = "/health"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	for name, p := range map[string]string{
		"api_prefix":   c.APIPrefix,
		"health_path":  c.HealthPath,
		"metrics_path": c.MetricsPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("server.%s must start with / (got: %q)", name, p)
		}
	}
	return validation.New().
		ProviderKey("server.provider_key", c.ProviderKey).
		Realm("server.realm", c.Realm).
		Err()
}

// Describe returns a human-readable one-liner for the startup summary.
func (c *Config) Describe() string {
	return fmt.Sprintf("realm=%s api=%s health=%s metrics=%s", c.Realm, c.APIPrefix, c.HealthPath, c.MetricsPath)
}
