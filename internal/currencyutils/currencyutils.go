// Package currencyutils provides the numeric-string parsing shared by the
// statement readers.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a statement amount into a decimal value. Flex exports
// write large numbers with thousands separators ("1,234.5") and occasionally
// pad cells with whitespace.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips thousands separators and whitespace so the result
// parses with decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)
	return strings.ReplaceAll(amountStr, ",", "")
}

// ParseOptionalAmount is ParseAmount with empty cells reading as zero, for
// columns that are only filled on some row kinds.
func ParseOptionalAmount(amountStr string) (decimal.Decimal, error) {
	if StandardizeAmount(amountStr) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(amountStr)
}
