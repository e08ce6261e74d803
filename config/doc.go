// Package config loads service configuration from YAML files, .env files
// and environment variables using Viper.
//
// # Usage
//
//	type GatewayConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Auth  auth.Config   `mapstructure:"auth"`
//	    Users memory.Config `mapstructure:"accounts"`
//	}
//	var cfg GatewayConfig
//	err := config.LoadConfig("gatekit", &cfg, config.WithEnvPrefix("GATEKIT"))
//
// Environment variables override file values using underscore-separated
// paths (e.g., GATEKIT_AUTH_PROVIDER_KEY for auth.provider_key).
package config
