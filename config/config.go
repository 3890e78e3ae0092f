package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	JWTSecret    string `env:"JWT_SECRET,required"   validate:"required,min=32"`
	ResendAPIKey string `env:"RESEND_API_KEY"         validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"            validate:"required_if=Env production,required_if=Env staging"`

	// Reminder sweep tuning. The cron spec controls when a sweep fires; the
	// horizon controls how far ahead of a task's due date a reminder goes out.
	ReminderCron       string `env:"REMINDER_CRON" envDefault:"0 * * * *" validate:"required"`
	ReminderHorizonMin int    `env:"REMINDER_HORIZON_MIN" envDefault:"60" validate:"min=1,max=1440"`
	NotifyTimeoutSec   int    `env:"NOTIFY_TIMEOUT_SEC" envDefault:"10" validate:"min=1,max=120"`
	SweepBatchSize     int    `env:"SWEEP_BATCH_SIZE" envDefault:"100" validate:"min=1,max=1000"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) ReminderHorizon() time.Duration {
	return time.Duration(c.ReminderHorizonMin) * time.Minute
}

func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSec) * time.Second
}
