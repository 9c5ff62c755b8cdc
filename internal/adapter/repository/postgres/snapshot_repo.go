package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/payengine/internal/domain"
)

const insertSnapshotSQL = `INSERT INTO account_snapshots
	(run_id, client_id, available, held, total, locked, created_at)
VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7)`

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// SnapshotRepository persists account snapshots to PostgreSQL.
type SnapshotRepository struct {
	pool    pgxPool
	retrier *Retrier
	now     func() time.Time
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool, retrier *Retrier) *SnapshotRepository {
	return newSnapshotRepositoryWithPool(pool, retrier)
}

func newSnapshotRepositoryWithPool(pool pgxPool, retrier *Retrier) *SnapshotRepository {
	return &SnapshotRepository{
		pool:    pool,
		retrier: retrier,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Name implements usecase.SnapshotSink.
func (r *SnapshotRepository) Name() string {
	return "postgres"
}

// Write stores one row per account under runID in a single transaction.
func (r *SnapshotRepository) Write(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error {
	return r.retrier.Retry(ctx, func() error {
		return r.write(ctx, runID, accounts)
	})
}

func (r *SnapshotRepository) write(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createdAt := r.now()
	for _, acc := range accounts {
		_, err := tx.Exec(ctx, insertSnapshotSQL,
			runID,
			int32(acc.Client),
			domain.FormatAmount(acc.Available),
			domain.FormatAmount(acc.Held),
			domain.FormatAmount(acc.Total),
			acc.Locked,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("insert client %d: %w", acc.Client, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
