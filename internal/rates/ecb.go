package rates

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/parsererror"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// ECBProvider serves conversion factors computed from the European Central
// Bank's historical daily reference rates. The published table quotes every
// currency per 1 EUR; a factor into the local currency is the EUR pivot of
// the two quotes. Dates with no published rate (weekends, holidays) fall back
// to the nearest available date.
type ECBProvider struct {
	local string
	dates []string                              // ascending ISO dates present in the table
	table map[string]map[string]decimal.Decimal // ISO date -> currency -> per-EUR quote
	memo  *cache.Cache
}

// NewECBProvider downloads and parses the historical rates archive at url.
func NewECBProvider(url, localCurrency string) (*ECBProvider, error) {
	log.Info("Downloading ECB historical rates", logging.Field{Key: logging.FieldSource, Value: url})

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download ECB rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download ECB rates: received status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ECB response: %w", err)
	}

	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ECB rates archive: %w", err)
	}

	for _, f := range zipReader.File {
		if !strings.HasSuffix(f.Name, ".csv") {
			continue
		}
		csvFile, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open '%s' in ECB archive: %w", f.Name, err)
		}
		defer csvFile.Close()
		return NewECBProviderFromCSV(csvFile, localCurrency)
	}

	return nil, fmt.Errorf("no csv file found in ECB rates archive")
}

// NewECBProviderFromCSV parses the eurofxref-hist table from r.
func NewECBProviderFromCSV(r io.Reader, localCurrency string) (*ECBProvider, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ECB rates csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("ECB rates csv has no data rows")
	}

	header := records[0]
	if len(header) < 2 || strings.TrimSpace(header[0]) != "Date" {
		return nil, fmt.Errorf("unexpected ECB rates csv header: %v", header)
	}

	p := &ECBProvider{
		local: localCurrency,
		table: make(map[string]map[string]decimal.Decimal, len(records)-1),
		memo:  cache.New(cache.NoExpiration, cache.NoExpiration),
	}

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		date := strings.TrimSpace(record[0])
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}

		quotes := make(map[string]decimal.Decimal, len(header)-1)
		for i := 1; i < len(record) && i < len(header); i++ {
			value := strings.TrimSpace(record[i])
			if value == "" || value == "N/A" {
				continue
			}
			quote, err := decimal.NewFromString(value)
			if err != nil {
				continue
			}
			quotes[strings.TrimSpace(header[i])] = quote
		}
		if len(quotes) == 0 {
			continue
		}
		p.table[date] = quotes
		p.dates = append(p.dates, date)
	}

	if len(p.dates) == 0 {
		return nil, fmt.Errorf("ECB rates csv contained no usable rows")
	}
	sort.Strings(p.dates)

	log.Info("Loaded ECB historical rates",
		logging.Field{Key: logging.FieldCount, Value: len(p.dates)})
	return p, nil
}

// Rate returns the local-currency value of one unit of currency at date,
// falling back to the nearest date with a published quote.
func (p *ECBProvider) Rate(currency string, date time.Time) (decimal.Decimal, error) {
	if currency == p.local {
		return decimal.NewFromInt(1), nil
	}

	key := Key(currency, date)
	if memoized, ok := p.memo.Get(key); ok {
		return memoized.(decimal.Decimal), nil
	}

	perEURLocal, err := p.quote(p.local, date)
	if err != nil {
		return decimal.Zero, err
	}
	perEURTrade, err := p.quote(currency, date)
	if err != nil {
		return decimal.Zero, err
	}

	rate := perEURLocal.Div(perEURTrade)
	p.memo.Set(key, rate, cache.NoExpiration)
	return rate, nil
}

// quote returns the per-EUR value of a currency at the nearest available
// date: the requested date, else the closest earlier one, else the closest
// later one.
func (p *ECBProvider) quote(currency string, date time.Time) (decimal.Decimal, error) {
	if currency == "EUR" {
		return decimal.NewFromInt(1), nil
	}

	target := date.Format("2006-01-02")
	// First index at or after the target date.
	idx := sort.SearchStrings(p.dates, target)

	down := idx
	if down == len(p.dates) || p.dates[down] != target {
		down = idx - 1
	}
	for i := down; i >= 0; i-- {
		if q, ok := p.table[p.dates[i]][currency]; ok {
			if p.dates[i] != target {
				log.Debug("Using nearest available rate",
					logging.Field{Key: logging.FieldCurrency, Value: currency},
					logging.Field{Key: logging.FieldDate, Value: p.dates[i]})
			}
			return q, nil
		}
	}
	for i := idx; i < len(p.dates); i++ {
		if q, ok := p.table[p.dates[i]][currency]; ok {
			log.Debug("Using nearest available rate",
				logging.Field{Key: logging.FieldCurrency, Value: currency},
				logging.Field{Key: logging.FieldDate, Value: p.dates[i]})
			return q, nil
		}
	}

	return decimal.Zero, &parsererror.LookupError{
		Provider: "ecb",
		Currency: currency,
		Date:     date,
		Reason:   "currency not present in the published table",
	}
}
