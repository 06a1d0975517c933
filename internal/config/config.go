// Package config loads eventlog settings from a YAML file, EVENTLOG_*
// environment variables and built-in defaults, in that order of precedence
// (environment wins over the file).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"eventlog/internal/alerting"
	"eventlog/internal/console"
	"eventlog/pkg/models"
)

// EnvPrefix prefixes every environment override, e.g. EVENTLOG_LEVEL
const EnvPrefix = "EVENTLOG"

// Config is the full application configuration
type Config struct {
	// Level is the console threshold: log, warn, error or none
	Level string `mapstructure:"level"`
	// Listeners controls listener matching
	Listeners ListenersConfig `mapstructure:"listeners"`
	// Colors overrides the console palette
	Colors console.Colors `mapstructure:"colors"`
	// Report selects the ShowGroup output format
	Report ReportConfig `mapstructure:"report"`
	// Server is the HTTP API
	Server ServerConfig `mapstructure:"server"`
	// Ingest sizes the asynchronous ingestion queue
	Ingest IngestConfig `mapstructure:"ingest"`
	// Metrics toggles the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Logging configures internal diagnostics
	Logging LoggingConfig `mapstructure:"logging"`
}

// ListenersConfig controls listener matching
type ListenersConfig struct {
	// Match is "any" (group OR level) or "all" (group AND level)
	Match string `mapstructure:"match"`
}

// ReportConfig selects how group reports render
type ReportConfig struct {
	// Format is table, json or yaml
	Format string `mapstructure:"format"`
}

// ServerConfig is the HTTP listener
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// IngestConfig sizes the ingestion queue
type IngestConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// MetricsConfig toggles /metrics
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig configures logrus
type LoggingConfig struct {
	// Level is a logrus level name
	Level string `mapstructure:"level"`
	// Format is text or json
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("level", "log")
	v.SetDefault("listeners.match", "any")
	v.SetDefault("report.format", "table")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("ingest.buffer_size", 10000)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	d := console.DefaultColors()
	v.SetDefault("colors.log", d.Log)
	v.SetDefault("colors.log_bg", d.LogBg)
	v.SetDefault("colors.warn", d.Warn)
	v.SetDefault("colors.warn_bg", d.WarnBg)
	v.SetDefault("colors.error", d.Error)
	v.SetDefault("colors.error_bg", d.ErrorBg)
}

// Load reads configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	return Read(viper.New(), path)
}

// Read loads configuration into v, which may already carry bound flags
func Read(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates an already-populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Severity(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.MatchPolicy(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Report.Format) {
	case "table", "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("unknown report format %q", c.Report.Format))
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Ingest.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("ingest.buffer_size must be positive, got %d", c.Ingest.BufferSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Severity parses the console threshold
func (c *Config) Severity() (models.Severity, error) {
	return models.ParseSeverity(c.Level)
}

// MatchPolicy parses the listener match policy
func (c *Config) MatchPolicy() (alerting.MatchPolicy, error) {
	return alerting.ParseMatchPolicy(c.Listeners.Match)
}
