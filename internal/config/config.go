// Package config loads task-queue server configuration from an
// optional TOML file overlaid with environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the task-queue server.
// Precedence: environment variables > config file > defaults.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Queue   QueueConfig   `toml:"queue"`
	Metrics MetricsConfig `toml:"metrics"`
	Auth    AuthConfig    `toml:"auth"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig holds HTTP listen settings for both the REST and MCP
// surfaces, which share one listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	// CORSOrigins is a comma-separated list of allowed CORS origins, or "*".
	CORSOrigins string `toml:"cors_origins"`
}

// StoreConfig holds the durable KV adapter's settings.
type StoreConfig struct {
	// DBPath is the directory the bbolt database file is created under.
	// Empty means in-memory only.
	DBPath string `toml:"db_path"`
}

// QueueConfig holds task-execution defaults applied at submission time.
type QueueConfig struct {
	MaxConcurrent  int           `toml:"max_concurrent"`
	DefaultTimeout time.Duration `toml:"default_timeout"`
	RetryAttempts  int           `toml:"retry_attempts"`
	RetryDelay     time.Duration `toml:"retry_delay"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// AuthConfig controls the peripheral JWT/RBAC gate in front of the
// HTTP handler chain. Disabled by default; the service layer never
// consults this.
type AuthConfig struct {
	Enabled bool   `toml:"enabled"`
	Secret  string `toml:"secret"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Load creates a Config by reading from an optional TOML file and
// environment variables. Precedence: environment variables > config
// file > defaults.
//
// Config file search order (first found wins):
//  1. Path passed via configPath parameter (from --config flag)
//  2. TASK_QUEUE_CONFIG environment variable
//  3. ./task-queue.toml (current directory)
//  4. ~/.config/task-queue/task-queue.toml (XDG-style)
//
// All fields are optional in the config file. Environment variables
// always override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "16080",
			CORSOrigins: "*",
		},
		Store: StoreConfig{
			DBPath: "./data",
		},
		Queue: QueueConfig{
			MaxConcurrent:  10,
			DefaultTimeout: 5 * time.Minute,
			RetryAttempts:  3,
			RetryDelay:     30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile finds and parses the TOML config file. If no file is found,
// this is a no-op (config file is optional).
func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return nil
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if p := os.Getenv("TASK_QUEUE_CONFIG"); p != "" {
		return p
	}

	if _, err := os.Stat("task-queue.toml"); err == nil {
		return "task-queue.toml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := home + "/.config/task-queue/task-queue.toml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnv overlays environment variables on top of existing config
// values. Numeric/duration vars that fail to parse are left
// unchanged rather than zeroing the field.
func (c *Config) applyEnv() {
	envOverride("TASK_QUEUE_HOST", &c.Server.Host)
	envOverride("TASK_QUEUE_PORT", &c.Server.Port)
	envOverride("TASK_QUEUE_CORS_ORIGINS", &c.Server.CORSOrigins)
	envOverride("TASK_QUEUE_DB_PATH", &c.Store.DBPath)

	envOverrideInt("TASK_QUEUE_MAX_CONCURRENT", &c.Queue.MaxConcurrent)
	envOverrideDuration("TASK_QUEUE_DEFAULT_TIMEOUT", &c.Queue.DefaultTimeout)
	envOverrideInt("TASK_QUEUE_RETRY_ATTEMPTS", &c.Queue.RetryAttempts)
	envOverrideDuration("TASK_QUEUE_RETRY_DELAY", &c.Queue.RetryDelay)

	envOverrideBool("TASK_QUEUE_METRICS_ENABLED", &c.Metrics.Enabled)

	envOverride("TASK_QUEUE_LOG_LEVEL", &c.Log.Level)

	envOverrideBool("TASK_QUEUE_AUTH_ENABLED", &c.Auth.Enabled)
	envOverride("TASK_QUEUE_AUTH_SECRET", &c.Auth.Secret)
}

// Validate checks that required fields are present and internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required when auth is enabled: set TASK_QUEUE_AUTH_SECRET")
	}
	return nil
}

func envOverride(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func envOverrideBool(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

func envOverrideDuration(key string, dst *time.Duration) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
