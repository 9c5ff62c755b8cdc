package dto

import (
	"github.com/iho/payengine/internal/domain"
)

// AccountResponse represents an account snapshot in API and JSON output.
// Amounts are fixed-point strings with four decimals.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// AccountFromDomain converts a domain snapshot to a response.
func AccountFromDomain(a domain.AccountSnapshot) *AccountResponse {
	return &AccountResponse{
		Client:    uint16(a.Client),
		Available: domain.FormatAmount(a.Available),
		Held:      domain.FormatAmount(a.Held),
		Total:     domain.FormatAmount(a.Total),
		Locked:    a.Locked,
	}
}

// AccountsFromDomain converts domain snapshots to responses.
func AccountsFromDomain(accounts []domain.AccountSnapshot) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// SnapshotResponse is the full snapshot of one replay run.
type SnapshotResponse struct {
	RunID    string             `json:"run_id"`
	Accounts []*AccountResponse `json:"accounts"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
