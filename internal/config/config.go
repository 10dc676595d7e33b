package config

import (
	"time"

	"github.com/nursewise/nursewise-backend/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	SRS      SRSConfig      `yaml:"srs"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds spaced-repetition engine parameters.
type SRSConfig struct {
	DefaultEaseFactor float64 `yaml:"default_ease_factor" env:"SRS_DEFAULT_EASE"  env-default:"2.5"`
	MinEaseFactor     float64 `yaml:"min_ease_factor"     env:"SRS_MIN_EASE"      env-default:"1.3"`
	MaxIntervalDays   int     `yaml:"max_interval_days"   env:"SRS_MAX_INTERVAL"  env-default:"365"`
	QueueLimit        int     `yaml:"queue_limit"         env:"SRS_QUEUE_LIMIT"   env-default:"20"`
}

// ToDomain converts the loaded SRS settings into the engine parameter set
// the study service is constructed with.
func (s SRSConfig) ToDomain() domain.SRSConfig {
	return domain.SRSConfig{
		DefaultEaseFactor: s.DefaultEaseFactor,
		MinEaseFactor:     s.MinEaseFactor,
		MaxIntervalDays:   s.MaxIntervalDays,
		QueueLimit:        s.QueueLimit,
	}
}
