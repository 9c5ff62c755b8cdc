package eventpublisher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
)

// Publisher delivers snapshot events to an external system.
type Publisher interface {
	Publish(ctx context.Context, events []domain.AccountSnapshotEvent) error
}

// Config for EventPublisher.
type Config struct {
	Publisher Publisher
	Logger    zerolog.Logger
	BatchSize int // Number of events handed to the publisher at once
}

// EventPublisher turns a snapshot into one event per account and publishes
// them in batches.
type EventPublisher struct {
	publisher Publisher
	logger    zerolog.Logger
	batchSize int
	now       func() time.Time
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &EventPublisher{
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		batchSize: cfg.BatchSize,
		now:       time.Now,
	}
}

// Name implements usecase.SnapshotSink.
func (ep *EventPublisher) Name() string {
	return "kafka"
}

// Write publishes every account of the snapshot. A failed batch stops the
// export; earlier batches stay published.
func (ep *EventPublisher) Write(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error {
	at := ep.now()

	events := make([]domain.AccountSnapshotEvent, 0, len(accounts))
	for _, acc := range accounts {
		events = append(events, domain.NewAccountSnapshotEvent(runID, acc, at))
	}

	for start := 0; start < len(events); start += ep.batchSize {
		end := min(start+ep.batchSize, len(events))
		batch := events[start:end]

		if err := ep.publisher.Publish(ctx, batch); err != nil {
			ep.logger.Error().
				Err(err).
				Str("run_id", runID).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("failed to publish snapshot events")
			return fmt.Errorf("publish events %d-%d: %w", start, end-1, err)
		}

		ep.logger.Debug().
			Str("run_id", runID).
			Int("count", len(batch)).
			Msg("snapshot events published")
	}

	ep.logger.Info().
		Str("run_id", runID).
		Int("count", len(events)).
		Msg("snapshot published")
	return nil
}
