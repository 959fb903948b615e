package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/vitortiger/utm-tracker-saas/internal/flagx"
)

// parseFlags overlays cfg with:
//
//	-a string     listen address
//	-k string     JWT signing key
//	-ttl duration access token lifetime
//	-l string     log level
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("stubapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "JWT signing key")
	fs.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "access token lifetime")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.Filter(args, "a", "k", "ttl", "l")); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
