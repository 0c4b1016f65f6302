// Package dateutils infers and parses the date/time strings found in flex
// statements. The export mixes several forms with no declared convention, so
// the layout is guessed from the characters present.
package dateutils

import (
	"fmt"
	"strings"
	"time"

	"fininja/ib-tax/internal/parsererror"
)

// Date/time layouts that appear in flex statements.
const (
	LayoutDateTime    = "2006-01-02, 15:04:05"
	LayoutISO         = "2006-01-02"
	LayoutSlashNormal = "02/01/2006"
	LayoutSlashUSA    = "01/02/2006"
)

// SlashOrder resolves the ambiguous day/month order of slash-separated dates.
type SlashOrder string

const (
	// SlashOrderNormal reads slash dates as day/month/year.
	SlashOrderNormal SlashOrder = "normal"
	// SlashOrderUSA reads slash dates as month/day/year.
	SlashOrderUSA SlashOrder = "usa"
)

// Alternate returns the other slash convention, used for the one-shot retry
// after a failed extraction pass.
func (o SlashOrder) Alternate() SlashOrder {
	if o == SlashOrderUSA {
		return SlashOrderNormal
	}
	return SlashOrderUSA
}

// ParseSlashOrder converts a configuration string to a SlashOrder.
func ParseSlashOrder(s string) (SlashOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return SlashOrderNormal, nil
	case "usa":
		return SlashOrderUSA, nil
	}
	return "", fmt.Errorf("invalid slash order %q", s)
}

// InferLayout guesses the layout of a raw date/time string. Priority order,
// first match wins: comma means a full timestamp, dash means an ISO date,
// slash means a day/month-ambiguous date resolved by order.
func InferLayout(value string, order SlashOrder) (string, error) {
	switch {
	case strings.Contains(value, ","):
		return LayoutDateTime, nil
	case strings.Contains(value, "-"):
		return LayoutISO, nil
	case strings.Contains(value, "/"):
		if order == SlashOrderUSA {
			return LayoutSlashUSA, nil
		}
		return LayoutSlashNormal, nil
	}
	return "", &parsererror.FormatError{
		Value: value,
		Err:   fmt.Errorf("unrecognized date format"),
	}
}

// Parse infers the layout of value and parses it.
func Parse(value string, order SlashOrder) (time.Time, error) {
	value = strings.TrimSpace(value)
	layout, err := InferLayout(value, order)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, &parsererror.FormatError{Value: value, Err: err}
	}
	return t, nil
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
