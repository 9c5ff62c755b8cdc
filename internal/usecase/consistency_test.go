package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/payengine/internal/domain"
)

func TestCheckConsistency(t *testing.T) {
	tests := []struct {
		name        string
		accounts    []domain.AccountSnapshot
		expectedErr error
	}{
		{
			name: "exact totals",
			accounts: []domain.AccountSnapshot{
				{Client: 1, Available: dec("1.5"), Held: dec("0.5"), Total: dec("2")},
				{Client: 2, Available: dec("-1"), Held: dec("1"), Total: dec("0")},
			},
		},
		{
			name: "rounding difference within tolerance",
			accounts: []domain.AccountSnapshot{
				{Client: 1, Available: dec("0.0001"), Held: dec("0.0001"), Total: dec("0.0003")},
			},
		},
		{
			name: "total off by more than tolerance",
			accounts: []domain.AccountSnapshot{
				{Client: 1, Available: dec("1"), Held: dec("0"), Total: dec("1")},
				{Client: 2, Available: dec("1"), Held: dec("1"), Total: dec("1")},
			},
			expectedErr: ErrInconsistentSnapshot,
		},
		{
			name: "empty snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConsistency(tt.accounts)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
