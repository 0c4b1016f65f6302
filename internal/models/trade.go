// Package models defines the value records flowing through the statement
// processing pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeCode discriminates the two trade-row kinds of the statement's Trades
// section.
type TradeCode string

const (
	// TradeCodeTrade marks an execution row. In a closing sequence it
	// carries the closing leg's price and fee.
	TradeCodeTrade TradeCode = "Trade"
	// TradeCodeClosedLot marks a lot-closure row. Despite the name it
	// carries the opening leg's quantity, price and date.
	TradeCodeClosedLot TradeCode = "ClosedLot"
)

// Asset categories of the Trades section that take part in capital-gains
// reporting.
const (
	AssetCategoryStocks  = "Stocks"
	AssetCategoryOptions = "Equity and Index Options"
)

// Trade is one parsed execution or lot row. It lives only long enough to be
// paired with the row that follows it.
type Trade struct {
	Code          TradeCode
	AssetCategory string
	Currency      string
	Ticker        string
	DateTime      time.Time
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	// Fee is the commission of an execution row, stored as a positive
	// amount. Lot rows carry no fee.
	Fee decimal.Decimal
}

// IsOption reports whether the trade is an option contract, whose quoted
// prices are per share while one contract covers 100 shares.
func (t Trade) IsOption() bool {
	return t.AssetCategory == AssetCategoryOptions
}
