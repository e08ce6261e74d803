package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/gatekit/logger"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig holds the settings shared by every gatekit deployment:
// identity, environment and logging. Commands embed it with
// `mapstructure:",squash"` next to their auth and account sections.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills the environment and logging defaults. Debug mode
// logs authentication decisions unless the auth component level is set.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug {
		if c.Logging.Components == nil {
			c.Logging.Components = make(map[string]string)
		}
		if _, ok := c.Logging.Components[logger.ComponentAuth]; !ok {
			c.Logging.Components[logger.ComponentAuth] = "debug"
		}
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the identity and logging fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	return nil
}

// InitLogging installs the global logger and the per-component levels
// that logger.Get applies to the auth, http and resilience loggers.
func (c *ServiceConfig) InitLogging() error {
	logger.Init(c.Logging)
	return logger.SetLevels(c.Logging.Components)
}
