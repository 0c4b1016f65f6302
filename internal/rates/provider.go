// Package rates resolves local-currency conversion factors for trade
// currencies at given dates.
package rates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Provider returns the local-currency value of one unit of currency at date.
type Provider interface {
	Rate(currency string, date time.Time) (decimal.Decimal, error)
}

// StaticProvider serves rates from a fixed table, keyed by currency and ISO
// date. Used in tests and for offline runs with pre-fetched rates.
type StaticProvider struct {
	Local string
	Rates map[string]decimal.Decimal
}

// Key builds the lookup key for a currency at a date.
func Key(currency string, date time.Time) string {
	return fmt.Sprintf("%s|%s", currency, date.Format("2006-01-02"))
}

// Rate returns the stored factor, or 1 for the local currency itself.
func (p *StaticProvider) Rate(currency string, date time.Time) (decimal.Decimal, error) {
	if currency == p.Local {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := p.Rates[Key(currency, date)]; ok {
		return rate, nil
	}
	return decimal.Zero, fmt.Errorf("no static rate for %s on %s", currency, date.Format("2006-01-02"))
}
