package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExportPrecision is the number of decimal places reported in snapshots.
const ExportPrecision = 4

// ValidateAmount rejects negative amounts. Zero is accepted.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	return nil
}

// RoundForExport rounds half away from zero to ExportPrecision places.
func RoundForExport(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(ExportPrecision)
}

// FormatAmount renders an amount with exactly ExportPrecision decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(ExportPrecision)
}
