// Package config loads runtime configuration for the UTM tracker CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present. Variables already
//     set in the process environment take precedence over it.
//  3. Environment variables prefixed with UTM_ (see the env tags on Config).
//  4. Optional JSON file selected with -c or -config.
//  5. Command-line flags.
//
// Supported flags
//
//	-a string     API base URL, e.g. http://127.0.0.1:5000/api
//	-s string     path of the local session database
//	-t duration   per-request timeout ("15s")
//	-l string     log level: debug, info, warn, error
//	-e string     directory for exported reports
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "https://utm.example.com/api",
//	  "store_path": "/home/me/.utm/session.db",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "s3_bucket": "reports"
//	}
package config
