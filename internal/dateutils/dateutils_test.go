package dateutils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fininja/ib-tax/internal/parsererror"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		order      SlashOrder
		expectedOk bool
		expectedY  int
		expectedM  time.Month
		expectedD  int
	}{
		{"ISO date", "2023-01-10", SlashOrderNormal, true, 2023, time.January, 10},
		{"Full timestamp", "2023-01-10, 14:30:00", SlashOrderNormal, true, 2023, time.January, 10},
		{"Slash normal order", "10/01/2023", SlashOrderNormal, true, 2023, time.January, 10},
		{"Slash USA order", "10/01/2023", SlashOrderUSA, true, 2023, time.October, 1},
		{"Leading whitespace", " 2023-01-10", SlashOrderNormal, true, 2023, time.January, 10},
		{"No separators", "20230110", SlashOrderNormal, false, 0, 0, 0},
		{"Empty string", "", SlashOrderNormal, false, 0, 0, 0},
		{"Slash date out of range", "15/13/2023", SlashOrderNormal, false, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, err := Parse(tc.value, tc.order)

			if tc.expectedOk {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedY, date.Year())
				assert.Equal(t, tc.expectedM, date.Month())
				assert.Equal(t, tc.expectedD, date.Day())
			} else {
				var formatErr *parsererror.FormatError
				assert.True(t, errors.As(err, &formatErr), "expected a FormatError, got %v", err)
			}
		})
	}
}

func TestParseTimestampKeepsTime(t *testing.T) {
	date, err := Parse("2023-01-10, 14:30:00", SlashOrderNormal)
	require.NoError(t, err)
	assert.Equal(t, 14, date.Hour())
	assert.Equal(t, 30, date.Minute())
}

func TestInferLayoutPriority(t *testing.T) {
	// A comma wins even when slashes are present.
	layout, err := InferLayout("2023-01-10, 14:30:00", SlashOrderNormal)
	require.NoError(t, err)
	assert.Equal(t, LayoutDateTime, layout)

	// A dash wins over a slash-free guess.
	layout, err = InferLayout("2023-01-10", SlashOrderUSA)
	require.NoError(t, err)
	assert.Equal(t, LayoutISO, layout)
}

func TestSlashOrderAlternate(t *testing.T) {
	assert.Equal(t, SlashOrderUSA, SlashOrderNormal.Alternate())
	assert.Equal(t, SlashOrderNormal, SlashOrderUSA.Alternate())
}

func TestParseSlashOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SlashOrder
		ok       bool
	}{
		{"normal", SlashOrderNormal, true},
		{"USA", SlashOrderUSA, true},
		{"usa", SlashOrderUSA, true},
		{"", SlashOrderNormal, true},
		{"european", "", false},
	}

	for _, tc := range tests {
		order, err := ParseSlashOrder(tc.input)
		if tc.ok {
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, order)
		} else {
			assert.Error(t, err)
		}
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2023, time.March, 31, 23, 0, 0, 0, time.UTC)
	c := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameMonth(a, b))
	assert.False(t, SameMonth(a, c))
}
