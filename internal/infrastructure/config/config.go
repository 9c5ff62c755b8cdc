package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"debug"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"   envDefault:"log.txt"`

	// Snapshot output
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"csv"`
	MetricsFile  string `env:"METRICS_FILE"  envDefault:""`

	// Database (optional - leave empty to disable the postgres sink)
	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:""`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"4"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"0"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`

	// Redis (optional - leave empty to disable the redis sink)
	RedisURL       string        `env:"REDIS_URL"        envDefault:""`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"payengine:"`
	SnapshotTTL    time.Duration `env:"SNAPSHOT_TTL"     envDefault:"24h"`

	// Kafka (optional - leave empty to disable the kafka sink)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"account_snapshots"`

	// HTTP inspection server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTPRateLimit       float64       `env:"HTTP_RATE_LIMIT"       envDefault:"0"` // requests/s per IP, 0 disables
	HTTPRateBurst       int           `env:"HTTP_RATE_BURST"       envDefault:"20"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
