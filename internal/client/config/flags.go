package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/vitortiger/utm-tracker-saas/internal/flagx"
)

// parseFlags overlays cfg with the flags it owns; other flags in args are
// ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("utm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "session database path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "export directory")

	if err := fs.Parse(flagx.Filter(args, "a", "s", "t", "l", "e")); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
