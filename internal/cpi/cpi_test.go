package cpi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fininja/ib-tax/internal/parsererror"
)

func month(value string) time.Time {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		panic(err)
	}
	return t
}

func testSeries(fallback bool) *Series {
	return NewSeries([]Observation{
		{Month: month("2023-03"), Value: decimal.NewFromFloat(444.84)},
		{Month: month("2023-01"), Value: decimal.NewFromFloat(442.97)},
		{Month: month("2023-02"), Value: decimal.NewFromFloat(444.74)},
	}, fallback)
}

func TestSeriesValueExactMonth(t *testing.T) {
	s := testSeries(false)

	value, err := s.Value(time.Date(2023, 2, 17, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(444.74)))
}

func TestSeriesValueFallbackNearest(t *testing.T) {
	s := testSeries(true)

	// Before the first month the first observation serves.
	value, err := s.Value(month("2022-06"))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(442.97)))

	// After the last month the last observation serves.
	value, err = s.Value(month("2023-09"))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(444.84)))
}

func TestSeriesValueFallbackDisabled(t *testing.T) {
	s := testSeries(false)

	_, err := s.Value(month("2023-09"))
	var lookupErr *parsererror.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "cpi", lookupErr.Provider)
}

func TestSeriesValueEmpty(t *testing.T) {
	s := NewSeries(nil, true)

	_, err := s.Value(month("2023-01"))
	var lookupErr *parsererror.LookupError
	assert.True(t, errors.As(err, &lookupErr))
}

const hilanPage = `<html><body>
<div class="headerrow"><div>חודש</div><div>בסיס</div><div>אחוז</div><div>נקודות</div><div>מדד</div></div>
<div class="innerrow odd"><div>01/2023</div><div>2022</div><div>0.3</div><div>102.3</div><div>442.97</div></div>
<div class="innerrow even"><div>02/2023</div><div>2022</div><div>0.4</div><div>102.7</div><div>444.74</div></div>
<div class="innerrow odd"><div>bad-month</div><div></div><div></div><div></div><div>1.0</div></div>
</body></html>`

func TestParseHilanSeries(t *testing.T) {
	s, err := ParseHilanSeries(strings.NewReader(hilanPage), false)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	value, err := s.Value(month("2023-02"))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(444.74)))
}

func TestParseHilanSeriesNoRows(t *testing.T) {
	_, err := ParseHilanSeries(strings.NewReader("<html><body><p>maintenance</p></body></html>"), false)
	assert.Error(t, err)
}

func TestFetchHilanSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hilanPage)
	}))
	defer server.Close()

	s, err := FetchHilanSeries(server.URL, true)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestLoadSeriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yaml")
	content := `- month: "2023-01"
  value: 442.97
- month: "2023-02"
  value: 444.74
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSeriesFile(path, false)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	value, err := s.Value(month("2023-01"))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(442.97)))
}

func TestLoadSeriesFileInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSeriesFile(filepath.Join(dir, "missing.yaml"), false)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("[]\n"), 0o644))
	_, err = LoadSeriesFile(empty, false)
	assert.Error(t, err)

	badMonth := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badMonth, []byte("- month: \"January\"\n  value: 1\n"), 0o644))
	_, err = LoadSeriesFile(badMonth, false)
	assert.Error(t, err)
}

func TestCBSProviderValue(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `<calculator><answer><to_value>442.97</to_value></answer></calculator>`)
	}))
	defer server.Close()

	p := NewCBSProvider(false)
	p.URL = server.URL + "/?toDate=%d-%d-%d"

	value, err := p.Value(month("2023-01"))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(442.97)))

	// Second lookup in the same month is served from the memo.
	_, err = p.Value(time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCBSProviderFallbackWalksBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The two most recent months are not yet published.
		if strings.Contains(r.URL.RawQuery, "toDate=5-") || strings.Contains(r.URL.RawQuery, "toDate=4-") {
			http.Error(w, "no data", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `<calculator><answer><to_value>444.84</to_value></answer></calculator>`)
	}))
	defer server.Close()

	p := NewCBSProvider(true)
	p.URL = server.URL + "/?toDate=%d-%d-%d"

	value, err := p.Value(month("2023-05"))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(444.84)))
}

func TestCBSProviderFallbackDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no data", http.StatusBadRequest)
	}))
	defer server.Close()

	p := NewCBSProvider(false)
	p.URL = server.URL + "/?toDate=%d-%d-%d"

	_, err := p.Value(month("2023-05"))
	var lookupErr *parsererror.LookupError
	assert.True(t, errors.As(err, &lookupErr))
}
