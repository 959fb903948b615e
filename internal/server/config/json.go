package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vitortiger/utm-tracker-saas/internal/flagx"
	"github.com/vitortiger/utm-tracker-saas/internal/timex"
)

// JsonConfig is the on-disk shape of Config. TokenTTL accepts "24h" or
// integer nanoseconds.
type JsonConfig struct {
	Addr      string          `json:"addr"`
	SecretKey string          `json:"secret_key"`
	TokenTTL  *timex.Duration `json:"token_ttl"`
	LogLevel  string          `json:"log_level"`
	LogFormat string          `json:"log_format"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	return nil
}
