package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the CLI.
//
// S3 settings are optional; with no bucket, exports are written to ExportDir.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	StorePath      string        `env:"STORE_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
	ExportDir      string        `env:"EXPORT_DIR"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000/api"
	c.StorePath = "utm-session.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api base url %q", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: empty store path", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig builds a Config from the process environment and os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], nil, ".env")
}

// Load applies defaults, the dotenv file, environ (nil means the process
// environment), the JSON file named in args and finally the flags in args.
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
