package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client. It is stable for the process lifetime.
type ClientID uint16

// TransactionID identifies a transaction across the whole input stream.
type TransactionID uint32

// Kind is the type tag of a transaction.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeBack Kind = "chargeback"
)

// Transaction is one of Deposit, Withdrawal, Dispute, Resolve or ChargeBack.
// The set is closed: only this package can add variants.
type Transaction interface {
	ClientID() ClientID
	TransactionID() TransactionID
	Kind() Kind

	transaction()
}

// Deposit credits Amount to the client's available funds.
type Deposit struct {
	Client ClientID
	Tx     TransactionID
	Amount decimal.Decimal
}

// Withdrawal debits Amount from the client's available funds.
type Withdrawal struct {
	Client ClientID
	Tx     TransactionID
	Amount decimal.Decimal
}

// Dispute moves the funds of a previous deposit from available to held.
type Dispute struct {
	Client ClientID
	Tx     TransactionID
}

// Resolve releases the held funds of a disputed deposit.
type Resolve struct {
	Client ClientID
	Tx     TransactionID
}

// ChargeBack removes the held funds of a disputed deposit and locks the account.
type ChargeBack struct {
	Client ClientID
	Tx     TransactionID
}

func (t Deposit) ClientID() ClientID           { return t.Client }
func (t Deposit) TransactionID() TransactionID { return t.Tx }
func (t Deposit) Kind() Kind                   { return KindDeposit }
func (Deposit) transaction()                   {}

func (t Withdrawal) ClientID() ClientID           { return t.Client }
func (t Withdrawal) TransactionID() TransactionID { return t.Tx }
func (t Withdrawal) Kind() Kind                   { return KindWithdrawal }
func (Withdrawal) transaction()                   {}

func (t Dispute) ClientID() ClientID           { return t.Client }
func (t Dispute) TransactionID() TransactionID { return t.Tx }
func (t Dispute) Kind() Kind                   { return KindDispute }
func (Dispute) transaction()                   {}

func (t Resolve) ClientID() ClientID           { return t.Client }
func (t Resolve) TransactionID() TransactionID { return t.Tx }
func (t Resolve) Kind() Kind                   { return KindResolve }
func (Resolve) transaction()                   {}

func (t ChargeBack) ClientID() ClientID           { return t.Client }
func (t ChargeBack) TransactionID() TransactionID { return t.Tx }
func (t ChargeBack) Kind() Kind                   { return KindChargeBack }
func (ChargeBack) transaction()                   {}

// ParseKind maps a record type tag to a Kind.
func ParseKind(tag string) (Kind, error) {
	switch k := Kind(tag); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeBack:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, tag)
	}
}

// NewTransaction builds the variant for kind. Amount is required for deposits
// and withdrawals and ignored for the dispute lifecycle kinds.
func NewTransaction(kind Kind, client ClientID, tx TransactionID, amount *decimal.Decimal) (Transaction, error) {
	switch kind {
	case KindDeposit:
		if amount == nil {
			return nil, fmt.Errorf("%w: deposit tx %d", ErrMissingAmount, tx)
		}
		return Deposit{Client: client, Tx: tx, Amount: *amount}, nil
	case KindWithdrawal:
		if amount == nil {
			return nil, fmt.Errorf("%w: withdrawal tx %d", ErrMissingAmount, tx)
		}
		return Withdrawal{Client: client, Tx: tx, Amount: *amount}, nil
	case KindDispute:
		return Dispute{Client: client, Tx: tx}, nil
	case KindResolve:
		return Resolve{Client: client, Tx: tx}, nil
	case KindChargeBack:
		return ChargeBack{Client: client, Tx: tx}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionType, kind)
	}
}
