package usecase

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
)

var (
	// ErrInconsistentSnapshot is returned when an exported total does not match
	// available + held.
	ErrInconsistentSnapshot = errors.New("snapshot is inconsistent: total does not equal available + held")
)

// CheckConsistency verifies total == available + held for every account,
// within the rounding tolerance of the export precision.
func CheckConsistency(accounts []domain.AccountSnapshot) error {
	tolerance := decimal.RequireFromString(ConsistencyTolerance)

	var errs []error
	for _, acc := range accounts {
		diff := acc.Total.Sub(acc.Available.Add(acc.Held)).Abs()
		if diff.GreaterThan(tolerance) {
			errs = append(errs, fmt.Errorf(
				"%w: client=%d available=%s held=%s total=%s",
				ErrInconsistentSnapshot,
				acc.Client,
				acc.Available,
				acc.Held,
				acc.Total,
			))
		}
	}

	return errors.Join(errs...)
}
