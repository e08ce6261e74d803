// Package validation provides input validation for account data and
// configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Failures are returned as
// *errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type UserConfig struct {
//	    Username    string   `mapstructure:"username" validate:"required,username"`
//	    Authorities []string `mapstructure:"authorities" validate:"dive,authority"`
//	}
//	err := validation.Validate(cfg)
//
// Besides the validator built-ins, the tags "username", "salt",
// "authority" and "permission" are registered.
//
// # Programmatic Validation
//
//	err := validation.New().
//	    ProviderKey("auth.provider_key", cfg.ProviderKey).
//	    Authority("grants[0].authority", g.Authority).
//	    Permissions("grants[0].permissions", g.Permissions).
//	    Err()
package validation
