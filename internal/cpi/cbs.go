package cpi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/parsererror"
)

// DefaultCBSURL is the index calculator of the Israeli Central Bureau of
// Statistics. It answers with the index value at the requested date relative
// to a value of 100 at 1990-01-01.
const DefaultCBSURL = "https://api.cbs.gov.il/index/data/calculator/120010" +
	"?value=100&date=1-1-1990&toDate=%d-%d-%d&format=xml&download=false"

// CBSProvider fetches index values from the CBS calculator API, one HTTP
// call per distinct month. Responses are memoized for the lifetime of the
// provider.
type CBSProvider struct {
	// URL is a format string taking month, day, year. Defaults to
	// DefaultCBSURL when empty.
	URL string
	// Fallback retries earlier months when the requested one is not yet
	// published.
	Fallback bool
	// Client defaults to http.DefaultClient.
	Client *http.Client

	memo *cache.Cache
}

// NewCBSProvider creates a provider against the public CBS API.
func NewCBSProvider(fallback bool) *CBSProvider {
	return &CBSProvider{
		URL:      DefaultCBSURL,
		Fallback: fallback,
		memo:     cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

var toValuePath = xmlpath.MustCompile("//to_value")

// Value returns the index value at date. With Fallback on, months the API
// cannot answer for are substituted by the closest earlier month, up to a
// year back, with a warning.
func (p *CBSProvider) Value(date time.Time) (decimal.Decimal, error) {
	if p.memo == nil {
		p.memo = cache.New(cache.NoExpiration, cache.NoExpiration)
	}
	key := date.Format("2006-01")
	if memoized, ok := p.memo.Get(key); ok {
		return memoized.(decimal.Decimal), nil
	}

	value, err := p.fetch(date)
	if err == nil {
		p.memo.Set(key, value, cache.NoExpiration)
		return value, nil
	}
	if !p.Fallback {
		return decimal.Zero, err
	}

	// The calculator lags the calendar by a month or two; walk back until
	// it answers.
	for back := 1; back <= 12; back++ {
		earlier := date.AddDate(0, -back, 0)
		value, ferr := p.fetch(earlier)
		if ferr != nil {
			continue
		}
		log.Warn("No index value for requested month, using nearest available",
			logging.Field{Key: logging.FieldDate, Value: date.Format("01/2006")},
			logging.Field{Key: "nearest", Value: earlier.Format("01/2006")})
		p.memo.Set(key, value, cache.NoExpiration)
		return value, nil
	}

	return decimal.Zero, err
}

func (p *CBSProvider) fetch(date time.Time) (decimal.Decimal, error) {
	urlFormat := p.URL
	if urlFormat == "" {
		urlFormat = DefaultCBSURL
	}
	url := fmt.Sprintf(urlFormat, int(date.Month()), date.Day(), date.Year())

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch index data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &parsererror.LookupError{
			Provider: "cbs",
			Date:     date,
			Reason:   fmt.Sprintf("received status %s", resp.Status),
		}
	}

	root, err := xmlpath.Parse(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse index response: %w", err)
	}

	raw, ok := toValuePath.String(root)
	if !ok {
		return decimal.Zero, &parsererror.LookupError{
			Provider: "cbs",
			Date:     date,
			Reason:   "response has no to_value element",
		}
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid index value %q: %w", raw, err)
	}
	return value, nil
}
