package config

import (
	"time"

	redisclient "github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/redis"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage/postgres"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/logrotate"
)

// AppConfig represents the top-level configuration. It is loaded and
// validated before the reliability core sees it.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Database postgres.Config    `yaml:"database"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Retry    RetryConfig        `yaml:"retry"`
	Health   HealthConfig       `yaml:"health"`
	Alerts   AlertConfig        `yaml:"alerts"`
	Sensors  []SensorConfig     `yaml:"sensors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string           `yaml:"level"`  // debug, info, warn, error
	Format   string           `yaml:"format"` // json, text
	File     string           `yaml:"file"`   // empty = stderr only
	Rotation logrotate.Config `yaml:"rotation"`
}

// RetryConfig holds the shared backoff policy parameters.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

// HealthConfig holds health-check framework settings.
type HealthConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// AlertConfig holds the alert artifact location.
type AlertConfig struct {
	Path string `yaml:"path"`
}

// SensorConfig holds settings for one polled device.
type SensorConfig struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	PollInterval time.Duration `yaml:"poll_interval"`
	BaseTemp     float64       `yaml:"base_temp"` // simulated sources only
}
