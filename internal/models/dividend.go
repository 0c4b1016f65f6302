package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendEvent is one aggregated dividend payment: same-day fragments for a
// ticker merged together, with the withholding tax netted in and the
// local-currency amounts computed at the payment date's rate.
type DividendEvent struct {
	Ticker   string
	Currency string
	DateTime time.Time
	Date     string

	Amount decimal.Decimal
	// WithholdingTax keeps the sign of the source rows, normally negative.
	WithholdingTax decimal.Decimal

	Rate              decimal.Decimal
	AmountILS         decimal.Decimal
	WithholdingTaxILS decimal.Decimal
}

// SameEvent reports whether a row with the given ticker and date belongs to
// this record.
func (d DividendEvent) SameEvent(ticker, date string) bool {
	return d.Ticker == ticker && d.Date == date
}

// NetAmount returns the dividend net of the withheld tax, in trade currency.
func (d DividendEvent) NetAmount() decimal.Decimal {
	return d.Amount.Sub(d.WithholdingTax.Abs())
}

// NetAmountILS returns the dividend net of the withheld tax, in local
// currency.
func (d DividendEvent) NetAmountILS() decimal.Decimal {
	return d.AmountILS.Sub(d.WithholdingTaxILS.Abs())
}

// ReportDate formats t the way the filing worksheets expect.
func ReportDate(t time.Time) string {
	return t.Format(ReportDateLayout)
}
