package main

import (
	"fmt"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/auth/memory"
	"github.com/kbukum/gatekit/config"
	"github.com/kbukum/gatekit/resilience"
	"github.com/kbukum/gatekit/validation"
)

// Config is the gatekit command configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Auth       auth.Config       `yaml:"auth" mapstructure:"auth"`
	Accounts   memory.Config     `yaml:"accounts" mapstructure:"accounts"`
	Resilience resilience.Config `yaml:"resilience" mapstructure:"resilience"`

	// Grants maps authorities to the permission patterns they grant.
	Grants []Grant `yaml:"grants" mapstructure:"grants"`
}

// Grant gives every holder of Authority the listed permission patterns.
type Grant struct {
	Authority   string   `yaml:"authority" mapstructure:"authority"`
	Permissions []string `yaml:"permissions" mapstructure:"permissions"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "gatekit"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Accounts.ApplyDefaults()
	c.Resilience.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Accounts.Validate(); err != nil {
		return fmt.Errorf("accounts: %w", err)
	}
	if err := c.Resilience.Validate(); err != nil {
		return err
	}
	v := validation.New()
	for i, g := range c.Grants {
		field := fmt.Sprintf("grants[%d]", i)
		v.Authority(field+".authority", g.Authority).Permissions(field+".permissions", g.Permissions)
	}
	return v.Err()
}

// grantMap indexes Grants by authority.
func (c *Config) grantMap() map[string][]string {
	m := make(map[string][]string, len(c.Grants))
	for _, g := range c.Grants {
		m[g.Authority] = append(m[g.Authority], g.Permissions...)
	}
	return m
}
