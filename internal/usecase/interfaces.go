package usecase

import (
	"context"

	"github.com/iho/payengine/internal/domain"
)

// SnapshotSink receives the final account snapshot of a replay.
type SnapshotSink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	// Write stores or emits every account of one replay run.
	Write(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
