package usecase

import "time"

const (
	// DefaultSinkTimeout bounds a single snapshot sink write.
	DefaultSinkTimeout = 30 * time.Second

	// ConsistencyTolerance is the largest accepted difference between total
	// and available + held in an exported snapshot.
	ConsistencyTolerance = "0.0001"

	// Transaction outcomes used as metric labels.
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)
