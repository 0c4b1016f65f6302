package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"Plain integer", "1000", "1000", true},
		{"Decimal", "99.5", "99.5", true},
		{"Negative", "-1.7", "-1.7", true},
		{"Thousands separator", "1,234.5", "1234.5", true},
		{"Multiple separators", "12,345,678", "12345678", true},
		{"Padded", " 42 ", "42", true},
		{"Empty", "", "", false},
		{"Garbage", "abc", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := ParseAmount(tc.input)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, amount.String())
		})
	}
}

func TestParseOptionalAmount(t *testing.T) {
	amount, err := ParseOptionalAmount("")
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	amount, err = ParseOptionalAmount("-1")
	require.NoError(t, err)
	assert.Equal(t, "-1", amount.String())

	_, err = ParseOptionalAmount("bad")
	assert.Error(t, err)
}
