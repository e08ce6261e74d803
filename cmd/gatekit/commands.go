package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/auth/memory"
	"github.com/kbukum/gatekit/auth/password"
	"github.com/kbukum/gatekit/auth/permission"
	"github.com/kbukum/gatekit/config"
	"github.com/kbukum/gatekit/logger"
	"github.com/kbukum/gatekit/resilience"
	"github.com/kbukum/gatekit/version"
)

// exitError ends the command with a specific exit code and message.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// loadConfig reads the command configuration and initializes logging.
func loadConfig(file string) (*Config, error) {
	var cfg Config
	opts := []config.LoaderOption{config.WithEnvPrefix("GATEKIT")}
	if file != "" {
		opts = append(opts, config.WithConfigFile(file), config.WithStrict())
	}
	if err := config.LoadConfig("gatekit", &cfg, opts...); err != nil {
		return nil, err
	}
	if err := cfg.InitLogging(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readSecret returns the first line of r without its line ending.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runEncode(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	file := fs.StringP("config", "c", "", "config file")
	algorithm := fs.StringP("algorithm", "a", "", "override auth.password.algorithm")
	if err := fs.Parse(args); err != nil {
		return &exitError{code: 2, msg: err.Error()}
	}

	cfg, err := loadConfig(*file)
	if err != nil {
		return err
	}
	pcfg := *cfg.Auth.Password
	if *algorithm != "" {
		pcfg.Algorithm = password.Algorithm(*algorithm)
		if err := pcfg.Validate(); err != nil {
			return &exitError{code: 2, msg: err.Error()}
		}
	}
	enc, err := password.NewEncoder(pcfg)
	if err != nil {
		return err
	}

	raw, err := readSecret(stdin)
	if err != nil {
		return err
	}
	if raw == "" {
		return &exitError{code: 2, msg: "gatekit: empty password"}
	}

	var salt string
	if _, ok := enc.(*password.DigestEncoder); ok {
		if salt, err = password.GenerateSalt(16); err != nil {
			return err
		}
	}
	encoded, err := enc.EncodePassword(raw, salt)
	if err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(map[string]string{
		"algorithm": string(pcfg.Algorithm),
		"password":  encoded,
		"salt":      salt,
	})
}

// authResult is printed by the authenticate command.
type authResult struct {
	Username    string          `json:"username"`
	Outcome     string          `json:"outcome"`
	Authorities []string        `json:"authorities,omitempty"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

func runAuthenticate(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("authenticate", pflag.ContinueOnError)
	file := fs.StringP("config", "c", "", "config file")
	username := fs.StringP("user", "u", "", "username to authenticate")
	perms := fs.StringArrayP("permission", "p", nil, "permission to check for the authenticated user")
	if err := fs.Parse(args); err != nil {
		return &exitError{code: 2, msg: err.Error()}
	}
	if *username == "" {
		return &exitError{code: 2, msg: "gatekit: --user is required"}
	}

	cfg, err := loadConfig(*file)
	if err != nil {
		return err
	}
	store, err := memory.NewFromConfig(cfg.Accounts)
	if err != nil {
		return err
	}
	provider, err := auth.NewDaoProviderFromConfig(cfg.Auth,
		resilience.Guard(store, cfg.Resilience, logger.Get(logger.ComponentResilience)), nil)
	if err != nil {
		return err
	}

	secret, err := readSecret(stdin)
	if err != nil {
		return err
	}
	token, authErr := provider.Authenticate(context.Background(),
		auth.NewUsernamePasswordToken(*username, secret, provider.Key()))

	result := authResult{Username: *username, Outcome: auth.Outcome(authErr)}
	if authErr == nil {
		result.Authorities = token.Authorities()
		if len(*perms) > 0 {
			checker := permission.NewMapChecker(cfg.grantMap())
			result.Permissions = make(map[string]bool, len(*perms))
			for _, p := range *perms {
				result.Permissions[p] = permission.Granted(checker, token, p)
			}
		}
	}
	if err := json.NewEncoder(stdout).Encode(result); err != nil {
		return err
	}

	if authErr != nil {
		if auth.IsKind(authErr, auth.KindServiceFailure) {
			return authErr
		}
		return &exitError{code: 3, msg: authErr.Error()}
	}
	return nil
}

func runVersion(stdout io.Writer) error {
	return json.NewEncoder(stdout).Encode(version.Get())
}
