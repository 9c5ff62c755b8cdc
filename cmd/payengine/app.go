package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	csvAdapter "github.com/iho/payengine/internal/adapter/csv"
	"github.com/iho/payengine/internal/adapter/http/handler"
	jsonAdapter "github.com/iho/payengine/internal/adapter/json"
	postgresRepo "github.com/iho/payengine/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/payengine/internal/adapter/repository/redis"
	"github.com/iho/payengine/internal/infrastructure/config"
	"github.com/iho/payengine/internal/infrastructure/eventpublisher"
	"github.com/iho/payengine/internal/infrastructure/idgen"
	"github.com/iho/payengine/internal/infrastructure/logger"
	"github.com/iho/payengine/internal/infrastructure/metrics"
	"github.com/iho/payengine/internal/infrastructure/postgres"
	"github.com/iho/payengine/internal/infrastructure/redis"
	"github.com/iho/payengine/internal/usecase"
)

// Output formats of the primary snapshot writer.
const (
	outputCSV  = "csv"
	outputJSON = "json"
	outputNone = "none"
)

// app holds everything a command needs for one replay run.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	sinks    []usecase.SnapshotSink
	checks   map[string]handler.Check
	closers  []func() error
}

// loadConfig reads the environment and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	overlay := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	overlay("log-level", &cfg.LogLevel)
	overlay("log-format", &cfg.LogFormat)
	overlay("log-file", &cfg.LogFile)
	overlay("output", &cfg.OutputFormat)
	overlay("metrics-file", &cfg.MetricsFile)
	overlay("port", &cfg.HTTPPort)

	return cfg, nil
}

// newApp opens the log file and connects every configured sink. stdout
// receives the primary snapshot unless the output format is "none".
func newApp(ctx context.Context, cfg *config.Config, stdout io.Writer) (*app, error) {
	a := &app{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		checks:   make(map[string]handler.Check),
	}

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "-" {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, f.Close)
		logOut = f
	}
	a.logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOut})

	a.registry.MustRegister(collectors.NewGoCollector())
	a.metrics = metrics.New(a.registry)

	if err := a.connectSinks(ctx, stdout); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) connectSinks(ctx context.Context, stdout io.Writer) error {
	cfg := a.cfg

	switch cfg.OutputFormat {
	case outputCSV:
		a.sinks = append(a.sinks, csvAdapter.NewWriter(stdout))
	case outputJSON:
		a.sinks = append(a.sinks, jsonAdapter.NewWriter(stdout))
	case outputNone:
	default:
		return fmt.Errorf("unknown output format %q", cfg.OutputFormat)
	}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		a.checks["postgres"] = pool.Ping
		a.sinks = append(a.sinks, postgresRepo.NewSnapshotRepository(pool, postgresRepo.NewRetrier(a.logger)))
		a.logger.Info().Msg("connected to postgres")
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		a.sinks = append(a.sinks, redisRepo.NewSnapshotStore(client, cfg.RedisKeyPrefix, cfg.SnapshotTTL))
		a.logger.Info().Msg("connected to redis")
	}

	if len(cfg.KafkaBrokers) > 0 {
		kp := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, kp.Close)
		a.sinks = append(a.sinks, eventpublisher.NewEventPublisher(eventpublisher.Config{
			Publisher: kp,
			Logger:    a.logger,
		}))
		a.logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka publisher configured")
	}

	return nil
}

// replay reads the transaction file at path and replays it.
func (a *app) replay(ctx context.Context, path string) (*usecase.ReplayUseCase, *usecase.ReplayResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	reader, err := csvAdapter.NewReader(f)
	if err != nil {
		return nil, nil, err
	}

	uc := usecase.NewReplayUseCase(a.sinks, idgen.NewULIDGenerator(), a.metrics, a.logger)
	result, err := uc.Replay(ctx, reader.All())
	if err != nil {
		return nil, nil, err
	}
	if err := reader.Err(); err != nil {
		return nil, nil, err
	}
	return uc, result, nil
}

// writeMetrics dumps the registry when a metrics file is configured.
func (a *app) writeMetrics() error {
	if a.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteFile(a.cfg.MetricsFile, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Close releases sinks and the log file in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
