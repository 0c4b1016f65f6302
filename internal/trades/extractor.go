// Package trades pairs trade executions with their closing lots and computes
// the realized gains in trade currency and in local currency under the two
// adjustment conventions of Israeli capital-gains reporting.
package trades

import (
	"strings"

	"fininja/ib-tax/internal/cpi"
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

// Extractor walks the Trades section of a statement and produces the closed
// lots with their local-currency gains.
type Extractor struct {
	Rates      rates.Provider
	CPI        cpi.Provider
	SlashOrder dateutils.SlashOrder
	// Verbose logs every raw row and a summary line per closed lot.
	Verbose bool
}

// Result is the outcome of one extraction pass.
type Result struct {
	// Lots in statement order. Matching depends on this order; it is
	// never resorted.
	Lots []models.ClosedLot
	// SortedByCloseDate indexes Lots in ascending close-date order, ties
	// keeping statement order, as form 1325 requires.
	SortedByCloseDate []int
}

// Extract runs a single pass over the statement rows. An execution row is
// cached; each ClosedLot row that follows pairs against it. The cache
// survives until the next execution row, so one closing trade can settle
// several lots. A ClosedLot with nothing cached is a malformed statement.
func (e *Extractor) Extract(stmt *flexcsv.Statement) (*Result, error) {
	cols := stmt.TradeColumns()
	if len(cols) == 0 {
		log.Info("Statement has no trades section, no lots to report")
		return &Result{}, nil
	}

	var previous *models.Trade
	result := &Result{}

	for i, row := range stmt.Rows {
		rowNum := i + 1
		if e.Verbose {
			log.Debug("Raw row", logging.Field{Key: logging.FieldRow, Value: rowNum},
				logging.Field{Key: logging.FieldValue, Value: strings.Join(row, ",")})
		}

		if flexcsv.Section(row) != flexcsv.SectionTrades {
			continue
		}

		category := cols.Get(row, flexcsv.ColAssetCategory)
		if category != models.AssetCategoryStocks && category != models.AssetCategoryOptions {
			continue
		}

		code := models.TradeCode(cols.Get(row, flexcsv.ColTradeType))
		if code != models.TradeCodeTrade && code != models.TradeCodeClosedLot {
			continue
		}

		trade, err := e.parseTrade(row, cols, rowNum, code, category)
		if err != nil {
			return nil, err
		}

		switch code {
		case models.TradeCodeTrade:
			t := trade
			previous = &t
		case models.TradeCodeClosedLot:
			if previous == nil {
				return nil, &parsererror.PairingError{
					File:   stmt.Path,
					Row:    rowNum,
					Ticker: trade.Ticker,
				}
			}
			lot, err := e.buildLot(trade, *previous)
			if err != nil {
				return nil, err
			}
			result.Lots = append(result.Lots, lot)
			if e.Verbose {
				logLotSummary(lot)
			}
		}
	}

	result.SortedByCloseDate = sortByCloseDate(result.Lots)

	log.Info("Extracted closed lots",
		logging.Field{Key: logging.FieldCount, Value: len(result.Lots)})
	return result, nil
}

// parseTrade converts one raw trade row. The lot rows of the export carry no
// fee column value worth reading; only execution rows do.
func (e *Extractor) parseTrade(row []string, cols flexcsv.Columns, rowNum int, code models.TradeCode, category string) (models.Trade, error) {
	trade := models.Trade{
		Code:          code,
		AssetCategory: category,
		Currency:      cols.Get(row, flexcsv.ColCurrency),
		Ticker:        cols.Get(row, flexcsv.ColTicker),
	}

	dt, err := dateutils.Parse(cols.Get(row, flexcsv.ColDateTime), e.SlashOrder)
	if err != nil {
		if ferr, ok := err.(*parsererror.FormatError); ok {
			ferr.Row = rowNum
		}
		return models.Trade{}, err
	}
	trade.DateTime = dt

	// Large quantities carry thousands separators.
	trade.Quantity, err = currencyutils.ParseAmount(cols.Get(row, flexcsv.ColQuantity))
	if err != nil {
		return models.Trade{}, &parsererror.ParseError{
			Field: flexcsv.ColQuantity, Value: cols.Get(row, flexcsv.ColQuantity), Row: rowNum, Err: err,
		}
	}

	trade.Price, err = currencyutils.ParseAmount(cols.Get(row, flexcsv.ColPrice))
	if err != nil {
		return models.Trade{}, &parsererror.ParseError{
			Field: flexcsv.ColPrice, Value: cols.Get(row, flexcsv.ColPrice), Row: rowNum, Err: err,
		}
	}

	if code == models.TradeCodeTrade {
		fee, err := currencyutils.ParseOptionalAmount(cols.Get(row, flexcsv.ColFee))
		if err != nil {
			return models.Trade{}, &parsererror.ParseError{
				Field: flexcsv.ColFee, Value: cols.Get(row, flexcsv.ColFee), Row: rowNum, Err: err,
			}
		}
		trade.Fee = fee.Abs()
	}

	return trade, nil
}

func logLotSummary(lot models.ClosedLot) {
	log.Infof("ticker %s: open_date %s, close_date %s, position_type: %s, quantity=%s, open_value=%s, close_value=%s, profit=%s, rate_open=%s, rate_close=%s",
		lot.Ticker, lot.OpenDate, lot.CloseDate, lot.PositionType,
		lot.Quantity, lot.OpenValue, lot.CloseValue, lot.Profit,
		lot.OpenRate, lot.CloseRate)
}
