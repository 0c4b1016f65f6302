// Package dividends aggregates the dividend and withholding-tax rows of a
// statement into one record per ticker and payment date, converted to local
// currency for forms 1322 and 1324.
package dividends

import (
	"strings"

	"github.com/shopspring/decimal"

	"fininja/ib-tax/internal/currencyutils"
	"fininja/ib-tax/internal/dateutils"
	"fininja/ib-tax/internal/flexcsv"
	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/models"
	"fininja/ib-tax/internal/parsererror"
	"fininja/ib-tax/internal/rates"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// Aggregator accumulates dividend events from a statement.
type Aggregator struct {
	Rates      rates.Provider
	SlashOrder dateutils.SlashOrder
}

// Extract runs a single pass over the statement. Dividend fragments for the
// same ticker and date merge into one record; withholding-tax rows net into
// the record they belong to. Tax rows with no matching dividend are dropped
// with a warning.
func (a *Aggregator) Extract(stmt *flexcsv.Statement) ([]models.DividendEvent, error) {
	cols := stmt.DividendColumns()
	if len(cols) == 0 {
		log.Info("Statement has no dividends section, nothing to report")
		return nil, nil
	}

	var events []models.DividendEvent

	for i, row := range stmt.Rows {
		rowNum := i + 1
		section := flexcsv.Section(row)
		if section != flexcsv.SectionDividends && section != flexcsv.SectionWithholding {
			continue
		}
		if flexcsv.Role(row) != flexcsv.RoleData {
			continue
		}

		currency := cols.Get(row, flexcsv.ColCurrency)
		// Per-currency summary rows repeat the totals, not new events.
		if strings.Contains(currency, "Total") {
			continue
		}

		dt, err := dateutils.Parse(cols.Get(row, flexcsv.ColDateTime), a.SlashOrder)
		if err != nil {
			if ferr, ok := err.(*parsererror.FormatError); ok {
				ferr.Row = rowNum
			}
			return nil, err
		}

		// The description reads like "MSFT(US5949181045) Cash Dividend ...";
		// the ticker is everything before the ISIN parenthesis.
		ticker := strings.TrimSpace(strings.SplitN(cols.Get(row, flexcsv.ColTicker), "(", 2)[0])
		date := models.ReportDate(dt)

		amount, err := currencyutils.ParseAmount(cols.Get(row, flexcsv.ColAmount))
		if err != nil {
			return nil, &parsererror.ParseError{
				Field: flexcsv.ColAmount,
				Value: cols.Get(row, flexcsv.ColAmount),
				Row:   rowNum,
				Err:   err,
			}
		}

		switch section {
		case flexcsv.SectionDividends:
			// Split payments arrive as adjacent rows; fold them into
			// the record just appended.
			if n := len(events); n > 0 && events[n-1].SameEvent(ticker, date) {
				events[n-1].Amount = events[n-1].Amount.Add(amount)
				continue
			}
			events = append(events, models.DividendEvent{
				Ticker:   ticker,
				Currency: currency,
				DateTime: dt,
				Date:     date,
				Amount:   amount,
			})
		case flexcsv.SectionWithholding:
			if !a.netWithholding(events, ticker, date, amount) {
				log.Warn("Withholding tax row has no matching dividend, dropping",
					logging.Field{Key: logging.FieldTicker, Value: ticker},
					logging.Field{Key: logging.FieldDate, Value: date},
					logging.Field{Key: logging.FieldRow, Value: rowNum})
			}
		}
	}

	if err := a.convert(events); err != nil {
		return nil, err
	}

	log.Info("Aggregated dividend events",
		logging.Field{Key: logging.FieldCount, Value: len(events)})
	return events, nil
}

// netWithholding adds amount into the first record matching ticker and date.
// A linear scan is fine at statement volumes.
func (a *Aggregator) netWithholding(events []models.DividendEvent, ticker, date string, amount decimal.Decimal) bool {
	for i := range events {
		if events[i].SameEvent(ticker, date) {
			events[i].WithholdingTax = events[i].WithholdingTax.Add(amount)
			return true
		}
	}
	return false
}

// convert fills in the local-currency amounts at each event's payment date.
func (a *Aggregator) convert(events []models.DividendEvent) error {
	for i := range events {
		rate, err := a.Rates.Rate(events[i].Currency, events[i].DateTime)
		if err != nil {
			return err
		}
		events[i].Rate = rate
		events[i].AmountILS = events[i].Amount.Mul(rate)
		events[i].WithholdingTaxILS = events[i].WithholdingTax.Mul(rate)
	}
	return nil
}
