package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

// ReplayResult summarizes one replay run.
type ReplayResult struct {
	RunID     string
	Applied   int
	Rejected  int
	Malformed int
	Accounts  []domain.AccountSnapshot
	Duration  time.Duration
}

// ReplayUseCase drives a Ledger over a transaction stream and exports the
// resulting snapshot.
type ReplayUseCase struct {
	sinks   []SnapshotSink
	idGen   IDGenerator
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewReplayUseCase creates a new ReplayUseCase. metrics may be nil.
func NewReplayUseCase(
	sinks []SnapshotSink,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *ReplayUseCase {
	return &ReplayUseCase{
		sinks:   sinks,
		idGen:   idGen,
		metrics: metrics,
		logger:  logger,
	}
}

// Replay applies every decoded transaction of source, in order, to a fresh
// Ledger. Decode failures and rejected transactions are logged and skipped;
// only cancellation of ctx stops the replay early.
func (uc *ReplayUseCase) Replay(ctx context.Context, source iter.Seq2[domain.Transaction, error]) (*ReplayResult, error) {
	start := time.Now()
	result := &ReplayResult{RunID: uc.idGen.Generate()}
	logger := uc.logger.With().Str("run_id", result.RunID).Logger()
	ledger := NewLedger(logger)

	logger.Info().Msg("replay started")

	for tx, err := range source {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("replay interrupted: %w", ctxErr)
		}

		if err != nil {
			result.Malformed++
			logger.Error().Err(err).Msg("failed to decode transaction")
			if uc.metrics != nil {
				uc.metrics.MalformedRecords.Inc()
			}
			continue
		}

		logger.Debug().
			Str("kind", string(tx.Kind())).
			Uint16("client", uint16(tx.ClientID())).
			Uint32("tx", uint32(tx.TransactionID())).
			Msg("applying transaction")

		if err := ledger.Apply(tx); err != nil {
			result.Rejected++
			uc.observe(tx.Kind(), OutcomeRejected, domain.RejectionReason(err))
			continue
		}
		result.Applied++
		uc.observe(tx.Kind(), OutcomeApplied, "")
	}

	result.Accounts = ledger.Snapshot()
	result.Duration = time.Since(start)

	if err := CheckConsistency(result.Accounts); err != nil {
		logger.Error().Err(err).Msg("snapshot consistency check failed")
	}

	if uc.metrics != nil {
		locked := 0
		for _, acc := range result.Accounts {
			if acc.Locked {
				locked++
			}
		}
		uc.metrics.Accounts.Set(float64(len(result.Accounts)))
		uc.metrics.LockedAccounts.Set(float64(locked))
		uc.metrics.ReplayDuration.Observe(result.Duration.Seconds())
	}

	logger.Info().
		Int("applied", result.Applied).
		Int("rejected", result.Rejected).
		Int("malformed", result.Malformed).
		Int("accounts", len(result.Accounts)).
		Dur("duration", result.Duration).
		Msg("replay finished")

	return result, nil
}

// Export writes the snapshot of result to every sink. All sinks are
// attempted; their errors are joined.
func (uc *ReplayUseCase) Export(ctx context.Context, result *ReplayResult) error {
	var errs []error

	for _, sink := range uc.sinks {
		if err := uc.write(ctx, sink, result); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (uc *ReplayUseCase) write(ctx context.Context, sink SnapshotSink, result *ReplayResult) error {
	sinkCtx, cancel := context.WithTimeout(ctx, DefaultSinkTimeout)
	defer cancel()

	start := time.Now()
	err := sink.Write(sinkCtx, result.RunID, result.Accounts)

	status := "success"
	if err != nil {
		status = "error"
		uc.logger.Error().
			Str("run_id", result.RunID).
			Str("sink", sink.Name()).
			Err(err).
			Msg("failed to write snapshot")
	} else {
		uc.logger.Info().
			Str("run_id", result.RunID).
			Str("sink", sink.Name()).
			Int("accounts", len(result.Accounts)).
			Msg("snapshot written")
	}

	if uc.metrics != nil {
		uc.metrics.SinkWrites.WithLabelValues(sink.Name(), status).Inc()
		uc.metrics.SinkDuration.WithLabelValues(sink.Name()).Observe(time.Since(start).Seconds())
	}

	return err
}

func (uc *ReplayUseCase) observe(kind domain.Kind, outcome, reason string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.Transactions.WithLabelValues(string(kind), outcome).Inc()
	if reason != "" {
		uc.metrics.Rejections.WithLabelValues(string(kind), reason).Inc()
	}
}
