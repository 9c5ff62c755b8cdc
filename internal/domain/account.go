package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account holds a client's balances. Available and Held are never clamped;
// a dispute after a withdrawal can drive Available below zero.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns an empty, unlocked account.
func NewAccount() *Account {
	return &Account{
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns Available + Held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// ValidateDebit checks if amount can be withdrawn from available funds.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Available.Sub(amount).IsNegative() {
		return fmt.Errorf("%w: available %s, requested %s", ErrInsufficientFunds, a.Available, amount)
	}
	return nil
}

// Credit adds amount to available funds.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Debit subtracts amount from available funds.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
}

// Hold moves amount from available to held.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release moves amount from held back to available.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// ChargeBack removes amount from held and locks the account for good.
func (a *Account) ChargeBack(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Locked = true
}

// Snapshot returns the exported view of the account for client.
func (a *Account) Snapshot(client ClientID) AccountSnapshot {
	return AccountSnapshot{
		Client:    client,
		Available: RoundForExport(a.Available),
		Held:      RoundForExport(a.Held),
		Total:     RoundForExport(a.Total()),
		Locked:    a.Locked,
	}
}

// AccountSnapshot is the exported, rounded state of one client's account.
type AccountSnapshot struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
