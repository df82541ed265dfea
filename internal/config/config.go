package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration of the masterplan server and CLI.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type HTTPConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // "development" or "production"
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint,omitempty"`
	Insecure    bool    `yaml:"insecure,omitempty"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "masterplan.db"},
		Log:      LogConfig{Mode: "development"},
		Tracing:  TracingConfig{SampleRatio: 0.1},
	}
}

// Load layers defaults, the YAML file at path (skipped when path is empty),
// and environment overrides, then validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("MASTERPLAN_HTTP_ADDR", &c.HTTP.Addr)
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		c.HTTP.Addr = ":" + strings.TrimSpace(v)
	}
	if v, ok := lookup("MASTERPLAN_CORS_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		c.HTTP.CORSOrigins = splitList(v)
	}
	str("MASTERPLAN_DB_DRIVER", &c.Database.Driver)
	str("MASTERPLAN_DB_DSN", &c.Database.DSN)
	str("LOG_MODE", &c.Log.Mode)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Tracing.Endpoint)

	if v, ok := lookup("OTEL_ENABLED"); ok && strings.TrimSpace(v) != "" {
		c.Tracing.Enabled = truthy(v)
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_INSECURE"); ok && strings.TrimSpace(v) != "" {
		c.Tracing.Insecure = truthy(v)
	}
	if v, ok := lookup("OTEL_SAMPLER_RATIO"); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("OTEL_SAMPLER_RATIO: %w", err)
		}
		c.Tracing.SampleRatio = f
	}
	return nil
}

// Validate rejects unknown drivers and out-of-range sampling ratios.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("config: database dsn is required")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("config: tracing sample_ratio must be within [0,1], got %v", c.Tracing.SampleRatio)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("config: http addr is required")
	}
	return nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
