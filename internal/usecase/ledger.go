package usecase

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
)

type depositKey struct {
	client domain.ClientID
	tx     domain.TransactionID
}

// Ledger owns all account and deposit state of one replay. It has a single
// mutator and is not safe for concurrent use.
type Ledger struct {
	accounts map[domain.ClientID]*domain.Account
	deposits map[depositKey]*domain.DepositRecord
	logger   zerolog.Logger
}

// NewLedger creates an empty ledger.
func NewLedger(logger zerolog.Logger) *Ledger {
	return &Ledger{
		accounts: make(map[domain.ClientID]*domain.Account),
		deposits: make(map[depositKey]*domain.DepositRecord),
		logger:   logger.With().Str("component", "ledger").Logger(),
	}
}

// Apply applies tx to the ledger state. A rejected transaction leaves the
// state untouched; the returned error only describes why it was skipped and
// is logged here already.
func (l *Ledger) Apply(tx domain.Transaction) error {
	err := l.apply(tx)
	if err != nil {
		event := l.logger.Warn()
		if errors.Is(err, domain.ErrAccountLocked) {
			event = l.logger.Info()
		}
		event.
			Str("kind", string(tx.Kind())).
			Uint16("client", uint16(tx.ClientID())).
			Uint32("tx", uint32(tx.TransactionID())).
			Err(err).
			Msg("transaction rejected")
	}
	return err
}

func (l *Ledger) apply(tx domain.Transaction) error {
	if acc, ok := l.accounts[tx.ClientID()]; ok && acc.Locked {
		return fmt.Errorf("client %d: %w", tx.ClientID(), domain.ErrAccountLocked)
	}

	switch t := tx.(type) {
	case domain.Deposit:
		return l.deposit(t)
	case domain.Withdrawal:
		return l.withdraw(t)
	case domain.Dispute:
		return l.dispute(t)
	case domain.Resolve:
		return l.resolve(t)
	case domain.ChargeBack:
		return l.chargeBack(t)
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownTransactionType, tx)
	}
}

func (l *Ledger) deposit(t domain.Deposit) error {
	if err := domain.ValidateAmount(t.Amount); err != nil {
		return err
	}

	acc, ok := l.accounts[t.Client]
	if !ok {
		acc = domain.NewAccount()
		l.accounts[t.Client] = acc
	}

	key := depositKey{client: t.Client, tx: t.Tx}
	if prev, exists := l.deposits[key]; exists {
		// Transaction ids are expected to be unique; the newer record wins.
		l.logger.Warn().
			Uint16("client", uint16(t.Client)).
			Uint32("tx", uint32(t.Tx)).
			Str("previous_amount", prev.Amount.String()).
			Str("previous_status", string(prev.Status)).
			Msg("duplicate deposit id, replacing record")
	}

	acc.Credit(t.Amount)
	l.deposits[key] = domain.NewDepositRecord(t.Amount)
	return nil
}

func (l *Ledger) withdraw(t domain.Withdrawal) error {
	acc, ok := l.accounts[t.Client]
	if !ok {
		return fmt.Errorf("client %d: %w", t.Client, domain.ErrAccountNotFound)
	}
	if err := domain.ValidateAmount(t.Amount); err != nil {
		return err
	}
	if err := acc.ValidateDebit(t.Amount); err != nil {
		return err
	}

	acc.Debit(t.Amount)
	return nil
}

func (l *Ledger) dispute(t domain.Dispute) error {
	rec, err := l.depositRecord(t.Client, t.Tx)
	if err != nil {
		return err
	}
	acc, ok := l.accounts[t.Client]
	if !ok {
		return fmt.Errorf("client %d: %w", t.Client, domain.ErrAccountNotFound)
	}
	if err := rec.OpenDispute(); err != nil {
		return fmt.Errorf("client %d tx %d: %w", t.Client, t.Tx, err)
	}

	// Available may go negative when the funds were already withdrawn.
	acc.Hold(rec.Amount)
	return nil
}

func (l *Ledger) resolve(t domain.Resolve) error {
	rec, err := l.depositRecord(t.Client, t.Tx)
	if err != nil {
		return err
	}
	acc, ok := l.accounts[t.Client]
	if !ok {
		return fmt.Errorf("client %d: %w", t.Client, domain.ErrAccountNotFound)
	}
	if err := rec.Resolve(); err != nil {
		return fmt.Errorf("client %d tx %d: %w", t.Client, t.Tx, err)
	}

	acc.Release(rec.Amount)
	return nil
}

func (l *Ledger) chargeBack(t domain.ChargeBack) error {
	rec, err := l.depositRecord(t.Client, t.Tx)
	if err != nil {
		return err
	}
	acc, ok := l.accounts[t.Client]
	if !ok {
		return fmt.Errorf("client %d: %w", t.Client, domain.ErrAccountNotFound)
	}
	if err := rec.ChargeBack(); err != nil {
		return fmt.Errorf("client %d tx %d: %w", t.Client, t.Tx, err)
	}

	acc.ChargeBack(rec.Amount)
	l.logger.Info().Uint16("client", uint16(t.Client)).Uint32("tx", uint32(t.Tx)).Msg("account locked")
	return nil
}

func (l *Ledger) depositRecord(client domain.ClientID, tx domain.TransactionID) (*domain.DepositRecord, error) {
	rec, ok := l.deposits[depositKey{client: client, tx: tx}]
	if !ok {
		return nil, fmt.Errorf("client %d tx %d: %w", client, tx, domain.ErrDepositNotFound)
	}
	return rec, nil
}

// Snapshot returns one rounded row per known client, ordered by client id.
func (l *Ledger) Snapshot() []domain.AccountSnapshot {
	out := make([]domain.AccountSnapshot, 0, len(l.accounts))
	for client, acc := range l.accounts {
		out = append(out, acc.Snapshot(client))
	}
	slices.SortFunc(out, func(a, b domain.AccountSnapshot) int {
		return cmp.Compare(a.Client, b.Client)
	})
	return out
}

// Account returns the rounded snapshot of one client.
func (l *Ledger) Account(client domain.ClientID) (domain.AccountSnapshot, bool) {
	acc, ok := l.accounts[client]
	if !ok {
		return domain.AccountSnapshot{}, false
	}
	return acc.Snapshot(client), true
}

// Len returns the number of known clients.
func (l *Ledger) Len() int {
	return len(l.accounts)
}
