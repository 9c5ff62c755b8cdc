package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DepositStatus tracks the dispute lifecycle of a deposit.
type DepositStatus string

const (
	DepositStatusClean       DepositStatus = "clean"
	DepositStatusDisputed    DepositStatus = "disputed"
	DepositStatusChargedBack DepositStatus = "charged_back"
)

// DepositRecord remembers a deposit so later disputes can reference it.
// Amount is fixed at creation; only Status changes afterwards.
type DepositRecord struct {
	Amount decimal.Decimal
	Status DepositStatus
}

// NewDepositRecord returns a clean record for amount.
func NewDepositRecord(amount decimal.Decimal) *DepositRecord {
	return &DepositRecord{
		Amount: amount,
		Status: DepositStatusClean,
	}
}

// Disputed reports whether the deposit has an open dispute.
func (d *DepositRecord) Disputed() bool {
	return d.Status == DepositStatusDisputed
}

// OpenDispute transitions clean -> disputed.
func (d *DepositRecord) OpenDispute() error {
	if d.Status != DepositStatusClean {
		return fmt.Errorf("%w: status %s", ErrAlreadyDisputed, d.Status)
	}
	d.Status = DepositStatusDisputed
	return nil
}

// Resolve transitions disputed -> clean.
func (d *DepositRecord) Resolve() error {
	if !d.Disputed() {
		return fmt.Errorf("%w: status %s", ErrNotDisputed, d.Status)
	}
	d.Status = DepositStatusClean
	return nil
}

// ChargeBack transitions disputed -> charged_back, which is terminal.
func (d *DepositRecord) ChargeBack() error {
	if !d.Disputed() {
		return fmt.Errorf("%w: status %s", ErrNotDisputed, d.Status)
	}
	d.Status = DepositStatusChargedBack
	return nil
}
