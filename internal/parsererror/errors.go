// Package parsererror defines the typed errors surfaced while reading a flex
// statement and enriching it with market data.
package parsererror

import (
	"fmt"
	"time"
)

// FormatError reports a date/time string whose format could not be inferred,
// or that failed to parse under the inferred layout. The top-level pipeline
// retries the extraction once with the alternate slash convention when it sees
// this error.
type FormatError struct {
	Value string
	Row   int
	Err   error
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: cannot read date %q: %v", e.Row, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot read date %q: %v", e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ParseError reports a field that could not be converted to its typed value.
type ParseError struct {
	Field string
	Value string
	Row   int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s=%q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LookupError reports a rate or index provider that could not resolve a date.
type LookupError struct {
	Provider string
	Currency string
	Date     time.Time
	Reason   string
}

func (e *LookupError) Error() string {
	if e.Currency != "" {
		return fmt.Sprintf("%s: no value for %s on %s: %s",
			e.Provider, e.Currency, e.Date.Format("2006-01-02"), e.Reason)
	}
	return fmt.Sprintf("%s: no value for %s: %s",
		e.Provider, e.Date.Format("2006-01-02"), e.Reason)
}

// PairingError reports a ClosedLot row that arrived with no preceding Trade
// row to pair against. The statement is malformed; matching against stale
// state would silently corrupt the output, so this is fatal.
type PairingError struct {
	File   string
	Row    int
	Ticker string
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("%s: row %d: ClosedLot for %q has no preceding trade row",
		e.File, e.Row, e.Ticker)
}
