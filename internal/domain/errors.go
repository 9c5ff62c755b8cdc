package domain

import "errors"

var (
	// Record errors
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrMissingAmount          = errors.New("amount is required")
	ErrMalformedRecord        = errors.New("malformed transaction record")

	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountLocked     = errors.New("account is locked")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// Dispute errors
	ErrDepositNotFound = errors.New("deposit not found")
	ErrAlreadyDisputed = errors.New("deposit is already disputed")
	ErrNotDisputed     = errors.New("deposit is not disputed")
)

// RejectionReason returns a stable label for a rejection error, used for
// metrics. Unknown errors map to "other".
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrDepositNotFound):
		return "deposit_not_found"
	case errors.Is(err, ErrAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, ErrNotDisputed):
		return "not_disputed"
	case errors.Is(err, ErrUnknownTransactionType):
		return "unknown_type"
	case errors.Is(err, ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed"
	default:
		return "other"
	}
}
