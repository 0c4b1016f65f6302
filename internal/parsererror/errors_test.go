package parsererror

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	inner := errors.New("no known layout")

	err := &FormatError{Value: "someday", Err: inner}
	assert.Equal(t, `cannot read date "someday": no known layout`, err.Error())

	err.Row = 7
	assert.Equal(t, `row 7: cannot read date "someday": no known layout`, err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestFormatErrorAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("extraction failed: %w", &FormatError{Value: "13/45/2023"})

	var formatErr *FormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "13/45/2023", formatErr.Value)
}

func TestParseError(t *testing.T) {
	inner := errors.New("bad syntax")
	err := &ParseError{Field: "quantity", Value: "ten", Row: 3, Err: inner}

	assert.Equal(t, `row 3: failed to parse quantity="ten": bad syntax`, err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestLookupError(t *testing.T) {
	date := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	withCurrency := &LookupError{Provider: "ecb", Currency: "XXX", Date: date, Reason: "not published"}
	assert.Equal(t, "ecb: no value for XXX on 2023-03-15: not published", withCurrency.Error())

	withoutCurrency := &LookupError{Provider: "cpi", Date: date, Reason: "no data"}
	assert.Equal(t, "cpi: no value for 2023-03-15: no data", withoutCurrency.Error())
}

func TestPairingError(t *testing.T) {
	err := &PairingError{File: "u123.csv", Row: 4, Ticker: "XYZ"}
	assert.Equal(t, `u123.csv: row 4: ClosedLot for "XYZ" has no preceding trade row`, err.Error())
}
