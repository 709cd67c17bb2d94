// Package config provides centralized configuration management for the
// cleaning service. Values come from environment variables, an optional
// TOML file named by CONFIG_FILE, and struct-tag defaults, in that order of
// precedence. Everything is validated on startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Limits   LimitsConfig    `toml:"limits"`
	Fuzzy    FuzzyConfig     `toml:"fuzzy"`
	Jobs     JobsConfig      `toml:"jobs"`
	Rate     RateLimitConfig `toml:"rate"`
	Security SecurityConfig  `toml:"security"`
	Logging  LoggingConfig   `toml:"logging"`
	Audit    AuditConfig     `toml:"audit"`

	// File is the TOML file the configuration was overlaid from, if any.
	File string `toml:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0" toml:"host"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080" toml:"port"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s" toml:"read_timeout"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"90s" toml:"write_timeout"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s" toml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown, including draining jobs (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s" toml:"shutdown_timeout"`

	// RequestTimeout is the middleware timeout for requests (default: 75s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"75s" toml:"request_timeout"`
}

// LimitsConfig caps the size of the input a single request may carry.
type LimitsConfig struct {
	// MaxInputBytes is the largest accepted CSV payload (default: 100MB)
	MaxInputBytes int64 `env:"LIMIT_MAX_INPUT_BYTES" default:"104857600" toml:"max_input_bytes"`

	// MaxLines stops tokenizing after this many physical lines (default: 10000)
	MaxLines int `env:"LIMIT_MAX_LINES" default:"10000" toml:"max_lines"`

	// MaxColumns truncates wider rows (default: 1000)
	MaxColumns int `env:"LIMIT_MAX_COLUMNS" default:"1000" toml:"max_columns"`

	// MaxLineLength rejects input containing a longer line (default: 10000)
	MaxLineLength int `env:"LIMIT_MAX_LINE_LENGTH" default:"10000" toml:"max_line_length"`

	// FuzzyMaxUnique skips fuzzy matching on columns with more unique values (default: 500)
	FuzzyMaxUnique int `env:"LIMIT_FUZZY_MAX_UNIQUE" default:"500" toml:"fuzzy_max_unique"`

	// InferenceSample is how many data rows type inference looks at (default: 100)
	InferenceSample int `env:"LIMIT_INFERENCE_SAMPLE" default:"100" toml:"inference_sample"`
}

// FuzzyConfig holds the default fuzzy-matching parameters. Requests may
// override both.
type FuzzyConfig struct {
	Threshold   float64 `env:"FUZZY_THRESHOLD" default:"0.8" toml:"threshold"`
	Mode        string  `env:"FUZZY_MODE" default:"normalized" toml:"mode"`
	FoldAccents bool    `env:"FUZZY_FOLD_ACCENTS" default:"false" toml:"fold_accents"`
}

// JobsConfig bounds concurrent operation execution.
type JobsConfig struct {
	// MaxConcurrent is the number of operations allowed to run at once (default: 4)
	MaxConcurrent int `env:"JOBS_MAX_CONCURRENT" default:"4" toml:"max_concurrent"`

	// MaxWait is how long a request waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"JOBS_MAX_WAIT" default:"10s" toml:"max_wait"`

	// Timeout is the maximum duration of a single operation (default: 60s)
	Timeout time.Duration `env:"JOBS_TIMEOUT" default:"60s" toml:"timeout"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`

	// RequestsPerMinute is the sustained rate per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100" toml:"requests_per_minute"`

	// Burst is how many requests an idle client may send at once (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20" toml:"burst"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" toml:"trusted_proxies"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true" toml:"enable_csp"`

	// RequireAPIKey enforces X-API-Key on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false" toml:"require_api_key"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS" toml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info" toml:"level"`

	// Format is the log format: text, json or pretty (default: text)
	Format string `env:"LOG_FORMAT" default:"text" toml:"format"`
}

// AuditConfig selects and tunes the audit log backend.
type AuditConfig struct {
	// Backend is memory, postgres or sqlite (default: memory)
	Backend string `env:"AUDIT_BACKEND" default:"memory" toml:"backend"`

	// DSN is the postgres connection string or the sqlite file path
	DSN string `env:"AUDIT_DSN" envAlt:"DATABASE_URL" toml:"dsn"`

	// MaxConns sizes the postgres pool (default: 10)
	MaxConns int `env:"AUDIT_MAX_CONNS" default:"10" toml:"max_conns"`

	// MaxEntries caps the memory backend; 0 keeps everything (default: 10000)
	MaxEntries int `env:"AUDIT_MAX_ENTRIES" default:"10000" toml:"max_entries"`

	// Retention is how long entries are kept (default: 2160h, 90 days)
	Retention time.Duration `env:"AUDIT_RETENTION" default:"2160h" toml:"retention"`

	// CheckInterval is how often expired entries are pruned (default: 24h)
	CheckInterval time.Duration `env:"AUDIT_CHECK_INTERVAL" default:"24h" toml:"check_interval"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
