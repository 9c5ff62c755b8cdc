package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payengine/internal/domain"
)

func TestAccountFromDomain(t *testing.T) {
	account := domain.AccountSnapshot{
		Client:    3,
		Available: decimal.RequireFromString("-0.5"),
		Held:      decimal.RequireFromString("1.25"),
		Total:     decimal.RequireFromString("0.75"),
		Locked:    true,
	}

	resp := AccountFromDomain(account)
	assert.Equal(t, &AccountResponse{
		Client:    3,
		Available: "-0.5000",
		Held:      "1.2500",
		Total:     "0.7500",
		Locked:    true,
	}, resp)

	list := AccountsFromDomain([]domain.AccountSnapshot{account})
	require.Len(t, list, 1)
	assert.Equal(t, resp, list[0])
}

func TestAccountResponseJSON(t *testing.T) {
	data, err := json.Marshal(AccountFromDomain(domain.AccountSnapshot{
		Client:    1,
		Available: decimal.RequireFromString("1.5"),
		Held:      decimal.Zero,
		Total:     decimal.RequireFromString("1.5"),
	}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"client":1,"available":"1.5000","held":"0.0000","total":"1.5000","locked":false}`, string(data))
}
