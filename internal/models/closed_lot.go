package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionType tells whether a closed lot was held long or short.
type PositionType string

const (
	PositionLong  PositionType = "long"
	PositionShort PositionType = "short"
)

// ReportDateLayout is the date form required on the filing worksheets.
const ReportDateLayout = "02/01/2006"

// ClosedLot is one realized capital-gains event: a matched open/close pair
// with its trade-currency economics and the local-currency profits under the
// two adjustment conventions. Immutable once computed.
type ClosedLot struct {
	Ticker   string
	Currency string

	OpenDateTime  time.Time
	CloseDateTime time.Time
	OpenDate      string
	CloseDate     string

	Quantity   decimal.Decimal
	OpenPrice  decimal.Decimal
	ClosePrice decimal.Decimal
	// OpenValue and CloseValue are quantity times price, with the option
	// contract multiplier applied and the closing fee already deducted
	// from CloseValue.
	OpenValue  decimal.Decimal
	CloseValue decimal.Decimal

	PositionType PositionType
	// Profit is the trade-currency gain or loss.
	Profit decimal.Decimal

	// Local-currency conversion factors at the open and close dates.
	OpenRate  decimal.Decimal
	CloseRate decimal.Decimal
	RateRatio decimal.Decimal

	// Price-index values at the open and close dates.
	OpenCPI  decimal.Decimal
	CloseCPI decimal.Decimal
	CPIRatio decimal.Decimal

	OpenValueILS         decimal.Decimal
	OpenValueILSForexAdj decimal.Decimal
	OpenValueILSCPIAdj   decimal.Decimal
	CloseValueILS        decimal.Decimal

	// Final reportable local-currency profits after the clamp rule.
	ProfitILSForex decimal.Decimal
	ProfitILSCPI   decimal.Decimal
}

// Proceeds returns the local-currency sale consideration of the lot: the
// close value for a long position, the absolute open value for a short one.
func (l ClosedLot) Proceeds() decimal.Decimal {
	if l.PositionType == PositionShort {
		return l.OpenValueILS.Abs()
	}
	return l.CloseValueILS
}
