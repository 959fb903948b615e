// Package config handles configuration for the development stub server,
// including defaults, dotenv and environment overlays, a JSON file and
// command-line flags (later sources win).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the stub server.
//
// An empty SecretKey is replaced by a random one at startup, so tokens do
// not survive a restart unless a key is configured.
type Config struct {
	Addr      string        `env:"ADDR"`
	SecretKey string        `env:"SECRET_KEY"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"`
	LogLevel  string        `env:"LOG_LEVEL"`
	LogFormat string        `env:"LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:5000"
	c.TokenTTL = 24 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "json"
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token ttl must be positive", ErrInvalidConfig)
	}
	return nil
}

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], nil, ".env")
}

// Load applies defaults, dotenv, environ (nil means the process
// environment), the JSON file named in args and the flags in args.
func Load(args []string, environ map[string]string, dotenv string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, environ, dotenv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
