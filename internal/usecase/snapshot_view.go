package usecase

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/iho/payengine/internal/domain"
)

// SnapshotView is a read-only index over the snapshot of a finished replay.
// It is safe for concurrent readers.
type SnapshotView struct {
	runID    string
	accounts []domain.AccountSnapshot
	byClient map[domain.ClientID]int
}

// NewSnapshotView indexes the accounts of result.
func NewSnapshotView(result *ReplayResult) *SnapshotView {
	accounts := make([]domain.AccountSnapshot, len(result.Accounts))
	copy(accounts, result.Accounts)
	slices.SortFunc(accounts, func(a, b domain.AccountSnapshot) int { return cmp.Compare(a.Client, b.Client) })

	byClient := make(map[domain.ClientID]int, len(accounts))
	for i, acc := range accounts {
		byClient[acc.Client] = i
	}

	return &SnapshotView{
		runID:    result.RunID,
		accounts: accounts,
		byClient: byClient,
	}
}

// RunID returns the id of the replay the view was built from.
func (v *SnapshotView) RunID() string {
	return v.runID
}

// Accounts returns every account ordered by client id.
func (v *SnapshotView) Accounts() []domain.AccountSnapshot {
	out := make([]domain.AccountSnapshot, len(v.accounts))
	copy(out, v.accounts)
	return out
}

// Account returns the snapshot of client or domain.ErrAccountNotFound.
func (v *SnapshotView) Account(client domain.ClientID) (domain.AccountSnapshot, error) {
	i, ok := v.byClient[client]
	if !ok {
		return domain.AccountSnapshot{}, fmt.Errorf("%w: client %d", domain.ErrAccountNotFound, client)
	}
	return v.accounts[i], nil
}
