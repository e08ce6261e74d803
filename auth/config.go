package auth

import (
	"fmt"

	"github.com/kbukum/gatekit/auth/password"
	"github.com/kbukum/gatekit/validation"
)

// Config holds authentication provider configuration.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// ProviderKey names the provider; tokens must carry the same key.
	ProviderKey string `mapstructure:"provider_key"`

	// HideUserNotFound reports unknown usernames as bad credentials.
	HideUserNotFound bool `mapstructure:"hide_user_not_found"`

	// Password selects the password encoder (nil means bcrypt defaults).
	Password *password.Config `mapstructure:"password"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Password == nil {
		c.Password = &password.Config{}
	}
	c.Password.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.New().ProviderKey("auth.provider_key", c.ProviderKey).Err(); err != nil {
		return err
	}
	if c.Password != nil {
		if err := c.Password.Validate(); err != nil {
			return fmt.Errorf("auth.password: %w", err)
		}
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
// Example: "provider=main encoder=bcrypt hide_user_not_found=true"
func (c *Config) Describe() string {
	key := c.ProviderKey
	if key == "" {
		key = "dao"
	}
	algo := password.AlgorithmBcrypt
	if c.Password != nil && c.Password.Algorithm != "" {
		algo = c.Password.Algorithm
	}
	return fmt.Sprintf("provider=%s encoder=%s hide_user_not_found=%t", key, algo, c.HideUserNotFound)
}

// NewDaoProviderFromConfig builds a DaoProvider whose encoder, key and
// not-found policy come from cfg. Explicit opts are applied last.
func NewDaoProviderFromConfig(cfg Config, users UserProvider, checker AccountChecker, opts ...Option) (*DaoProvider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	encoder, err := password.NewEncoder(*cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("auth.password: %w", err)
	}
	base := []Option{
		WithProviderKey(cfg.ProviderKey),
		WithHideUserNotFound(cfg.HideUserNotFound),
	}
	return NewDaoProvider(users, checker, encoder, append(base, opts...)...), nil
}
