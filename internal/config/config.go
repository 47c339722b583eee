// Package config handles configuration loading for ports, database strings, etc.
// Values come from an optional YAML file, a .env file and the environment, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values for the controller.
type Config struct {
	// Database connection string
	DatabaseURL string

	// HTTP server port for the controller
	HTTPPort int

	// Shared secret for tenant provisioning
	SystemSecret string

	// OTLP gRPC collector address. Empty disables tracing.
	OTELEndpoint string

	// Fraction of traces sampled
	TraceSampleRatio float64

	// Rate limit applied to tenants created without an explicit one
	DefaultRateLimit      int
	DefaultRateLimitBurst int

	// Bounds a single request, including the placement write.
	RequestTimeout time.Duration
}

// Load reads configuration. configPath may be empty, in which case
// dispatchboard.yaml in the working directory is used if present.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; only the environment matters then.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("port", 6161)
	// Tracing is opt-in: no collector address means no exporter.
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("default_rate_limit", 20)
	v.SetDefault("default_rate_limit_burst", 40)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("trace_sample_ratio", 1.0)

	for _, key := range []string{
		"database_url",
		"port",
		"system_secret",
		"otel_exporter_otlp_endpoint",
		"default_rate_limit",
		"default_rate_limit_burst",
		"request_timeout",
		"trace_sample_ratio",
	} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("dispatchboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:           v.GetString("database_url"),
		HTTPPort:              v.GetInt("port"),
		SystemSecret:          v.GetString("system_secret"),
		OTELEndpoint:          v.GetString("otel_exporter_otlp_endpoint"),
		DefaultRateLimit:      v.GetInt("default_rate_limit"),
		DefaultRateLimitBurst: v.GetInt("default_rate_limit_burst"),
		RequestTimeout:        v.GetDuration("request_timeout"),
		TraceSampleRatio:      v.GetFloat64("trace_sample_ratio"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is required (env: DATABASE_URL)")
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.HTTPPort)
	}
	if cfg.TraceSampleRatio < 0 || cfg.TraceSampleRatio > 1 {
		return nil, fmt.Errorf("trace_sample_ratio must be within [0, 1], got %v", cfg.TraceSampleRatio)
	}
	if cfg.DefaultRateLimitBurst < cfg.DefaultRateLimit {
		cfg.DefaultRateLimitBurst = cfg.DefaultRateLimit
	}

	return cfg, nil
}
