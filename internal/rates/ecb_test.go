package rates

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fininja/ib-tax/internal/parsererror"
)

const sampleRatesCSV = `Date,USD,JPY,ILS,GBP
2023-01-13,1.0814,138.94,3.7109,0.88573
2023-01-12,1.0772,139.47,3.7023,0.88434
2023-01-10,1.0747,142.27,3.7304,0.88300
2023-01-09,1.0696,141.35,3.7475,0.88175
`

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestProvider(t *testing.T) *ECBProvider {
	t.Helper()
	p, err := NewECBProviderFromCSV(strings.NewReader(sampleRatesCSV), "ILS")
	require.NoError(t, err)
	return p
}

func TestRateExactDate(t *testing.T) {
	p := newTestProvider(t)

	rate, err := p.Rate("USD", date("2023-01-10"))
	require.NoError(t, err)

	// ILS per USD via the EUR pivot: 3.7304 / 1.0747.
	assert.InDelta(t, 3.4711, rate.InexactFloat64(), 0.0001)
}

func TestRateLocalCurrencyIsOne(t *testing.T) {
	p := newTestProvider(t)

	rate, err := p.Rate("ILS", date("2023-01-10"))
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRateEURPivot(t *testing.T) {
	p := newTestProvider(t)

	rate, err := p.Rate("EUR", date("2023-01-12"))
	require.NoError(t, err)
	assert.InDelta(t, 3.7023, rate.InexactFloat64(), 0.0001)
}

func TestRateNearestDateFallback(t *testing.T) {
	p := newTestProvider(t)

	// 2023-01-11 is not published; the nearest earlier date 2023-01-10
	// serves it.
	fallback, err := p.Rate("USD", date("2023-01-11"))
	require.NoError(t, err)
	exact, err := p.Rate("USD", date("2023-01-10"))
	require.NoError(t, err)
	assert.True(t, fallback.Equal(exact))

	// Before the table's range the first available date serves.
	early, err := p.Rate("USD", date("2022-12-25"))
	require.NoError(t, err)
	first, err := p.Rate("USD", date("2023-01-09"))
	require.NoError(t, err)
	assert.True(t, early.Equal(first))

	// After the range the last available date serves.
	late, err := p.Rate("USD", date("2023-02-01"))
	require.NoError(t, err)
	last, err := p.Rate("USD", date("2023-01-13"))
	require.NoError(t, err)
	assert.True(t, late.Equal(last))
}

func TestRateUnknownCurrency(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Rate("XXX", date("2023-01-10"))
	var lookupErr *parsererror.LookupError
	assert.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "XXX", lookupErr.Currency)
}

func TestRateMemoized(t *testing.T) {
	p := newTestProvider(t)

	first, err := p.Rate("GBP", date("2023-01-13"))
	require.NoError(t, err)
	second, err := p.Rate("GBP", date("2023-01-13"))
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	_, cached := p.memo.Get(Key("GBP", date("2023-01-13")))
	assert.True(t, cached)
}

func TestNewECBProviderFromCSVRejectsBadInput(t *testing.T) {
	_, err := NewECBProviderFromCSV(strings.NewReader("not,a,rates\nfile,at,all\n"), "ILS")
	assert.Error(t, err)

	_, err = NewECBProviderFromCSV(strings.NewReader("Date,USD\n"), "ILS")
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{
		Local: "ILS",
		Rates: map[string]decimal.Decimal{
			Key("USD", date("2023-01-10")): decimal.NewFromFloat(3.47),
		},
	}

	rate, err := p.Rate("USD", date("2023-01-10"))
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(3.47)))

	rate, err = p.Rate("ILS", date("2023-01-10"))
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))

	_, err = p.Rate("USD", date("2023-01-11"))
	assert.Error(t, err)
}
