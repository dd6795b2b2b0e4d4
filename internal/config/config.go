package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/lmittmann/tint"
)

const (
	EnvProduction = "production"

	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Store     StoreConfig     `koanf:"store"`
	Redis     RedisConfig     `koanf:"redis"`
	Database  DatabaseConfig  `koanf:"database"`
	Worker    WorkerConfig    `koanf:"worker"`
	Logger    LoggerConfig    `koanf:"logger"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type UpstreamConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=redis postgres memory"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval"`
	BatchSize int           `koanf:"batch_size"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TelemetryConfig struct {
	ServiceName    string  `koanf:"service_name"`
	ServiceVersion string  `koanf:"service_version"`
	OTLPEndpoint   string  `koanf:"otlp_endpoint"`
	EnableTracing  bool    `koanf:"enable_tracing"`
	EnableMetrics  bool    `koanf:"enable_metrics"`
	SampleRate     float64 `koanf:"sample_rate" validate:"gte=0,lte=1"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags first, then the sections required by the chosen store driver.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Store.Driver {
	case DriverRedis:
		if err := validate.Struct(c.Redis.required()); err != nil {
			return fmt.Errorf("redis store: %w", err)
		}
	case DriverPostgres:
		if err := validate.Struct(c.Database.required()); err != nil {
			return fmt.Errorf("postgres store: %w", err)
		}
		if err := c.Worker.validate(); err != nil {
			return fmt.Errorf("postgres store: %w", err)
		}
	case DriverMemory:
		if c.IsProduction() {
			return fmt.Errorf("memory store is not allowed in %s", EnvProduction)
		}
		if err := c.Worker.validate(); err != nil {
			return fmt.Errorf("memory store: %w", err)
		}
	}

	return nil
}

// validate is applied for drivers whose expired claims are removed by the sweeper.
func (w WorkerConfig) validate() error {
	if w.Interval <= 0 || w.BatchSize <= 0 {
		return fmt.Errorf("worker interval and batch_size must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Primary.Env, EnvProduction)
}

// NewLogger builds the process logger from the configured level and format.
// Format is one of json, text (default) or pretty for colored local output.
func (c LoggerConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}

	switch strings.ToLower(c.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "pretty":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      c.level(),
			TimeFormat: time.RFC3339,
		}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
}

func (c LoggerConfig) level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
