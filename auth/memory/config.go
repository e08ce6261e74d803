package memory

import (
	"fmt"

	"github.com/kbukum/gatekit/validation"
)

// UserConfig declares one account. Password holds the already-encoded
// password.
type UserConfig struct {
	Username           string   `mapstructure:"username" validate:"required,username,max=255"`
	Password           string   `mapstructure:"password" validate:"required"`
	Salt               string   `mapstructure:"salt" validate:"salt"`
	Authorities        []string `mapstructure:"authorities" validate:"unique,dive,authority"`
	Disabled           bool     `mapstructure:"disabled"`
	Locked             bool     `mapstructure:"locked"`
	Expired            bool     `mapstructure:"expired"`
	CredentialsExpired bool     `mapstructure:"credentials_expired"`
}

// Config holds the static account list.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	Users []UserConfig `mapstructure:"users" validate:"dive"`
}

// ApplyDefaults is a no-op; accounts have no defaults.
func (c *Config) ApplyDefaults() {}

// Validate checks every account and rejects duplicate usernames.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Users))
	for i, u := range c.Users {
		key := normalize(u.Username)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
func (c *Config) Describe() string {
	return fmt.Sprintf("in-memory users=%d", len(c.Users))
}
