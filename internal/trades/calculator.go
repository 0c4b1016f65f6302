package trades

import (
	"sort"

	"github.com/shopspring/decimal"

	"fininja/ib-tax/internal/models"
)

var optionMultiplier = decimal.NewFromInt(100)

// buildLot pairs a lot row with the cached execution row. The lot row
// carries the opening economics (quantity, price, date); the execution row
// carries the closing economics (price, fee, date). The naming in the export
// is reversed from intuition; this pairing direction is what the statement
// data means and must not be flipped.
func (e *Extractor) buildLot(open, closing models.Trade) (models.ClosedLot, error) {
	lot := models.ClosedLot{
		Ticker:        open.Ticker,
		Currency:      open.Currency,
		OpenDateTime:  open.DateTime,
		CloseDateTime: closing.DateTime,
		OpenDate:      models.ReportDate(open.DateTime),
		CloseDate:     models.ReportDate(closing.DateTime),
		Quantity:      open.Quantity,
		OpenPrice:     open.Price,
		ClosePrice:    closing.Price,
	}

	// Values in trade currency. Quantity is signed, so a short position
	// yields negative values and the profit sign works out below without
	// any long/short branching.
	lot.CloseValue = open.Quantity.Mul(closing.Price)
	lot.OpenValue = open.Quantity.Mul(open.Price)

	// Option prices are quoted per share; a contract covers 100. The
	// multiplier applies before the fee, which is already per contract.
	if open.IsOption() {
		lot.CloseValue = lot.CloseValue.Mul(optionMultiplier)
		lot.OpenValue = lot.OpenValue.Mul(optionMultiplier)
	}

	// The closing fee reduces the close value for long and short alike.
	// The opening fee is already folded into the lot row's price.
	lot.CloseValue = lot.CloseValue.Sub(closing.Fee)

	if open.Quantity.Sign() > 0 {
		lot.PositionType = models.PositionLong
	} else {
		lot.PositionType = models.PositionShort
	}

	lot.Profit = lot.CloseValue.Sub(lot.OpenValue)

	var err error
	if lot.OpenRate, err = e.Rates.Rate(lot.Currency, lot.OpenDateTime); err != nil {
		return models.ClosedLot{}, err
	}
	if lot.CloseRate, err = e.Rates.Rate(lot.Currency, lot.CloseDateTime); err != nil {
		return models.ClosedLot{}, err
	}
	if lot.OpenCPI, err = e.CPI.Value(lot.OpenDateTime); err != nil {
		return models.ClosedLot{}, err
	}
	if lot.CloseCPI, err = e.CPI.Value(lot.CloseDateTime); err != nil {
		return models.ClosedLot{}, err
	}

	lot.RateRatio = lot.CloseRate.Div(lot.OpenRate)
	lot.CPIRatio = lot.CloseCPI.Div(lot.OpenCPI)

	lot.OpenValueILS = lot.OpenValue.Mul(lot.OpenRate)
	lot.OpenValueILSForexAdj = lot.OpenValue.Mul(lot.CloseRate)
	lot.OpenValueILSCPIAdj = lot.OpenValueILS.Mul(lot.CPIRatio)
	lot.CloseValueILS = lot.CloseValue.Mul(lot.CloseRate)

	profitTrivial := lot.CloseValueILS.Sub(lot.OpenValueILS)
	lot.ProfitILSForex = clampProfit(lot.Profit, profitTrivial, lot.CloseValueILS.Sub(lot.OpenValueILSForexAdj))
	lot.ProfitILSCPI = clampProfit(lot.Profit, profitTrivial, lot.CloseValueILS.Sub(lot.OpenValueILSCPIAdj))

	return lot, nil
}

// clampProfit applies the regulatory rule for the reportable local-currency
// profit: it may not exceed the unadjusted profit in magnitude, and a
// trade-currency loss may not become a local-currency gain or vice versa.
func clampProfit(profit, trivial, adjusted decimal.Decimal) decimal.Decimal {
	if profit.Sign() >= 0 {
		return decimal.Max(decimal.Min(trivial, adjusted), decimal.Zero)
	}
	return decimal.Min(decimal.Max(trivial, adjusted), decimal.Zero)
}

// sortByCloseDate returns the indices of lots in ascending close-date order.
// The sort is stable so equal close dates keep their statement order.
func sortByCloseDate(lots []models.ClosedLot) []int {
	indices := make([]int, len(lots))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return lots[indices[a]].CloseDateTime.Before(lots[indices[b]].CloseDateTime)
	})
	return indices
}
