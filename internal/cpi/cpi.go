// Package cpi resolves Israeli consumer-price-index values used for
// inflation-adjusted capital gains. Index values are normalized to 100 at
// 1990-01-01. Data is published per month; lookups resolve by calendar month.
package cpi

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fininja/ib-tax/internal/dateutils"
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

// Provider returns the cumulative price index value at a date.
type Provider interface {
	Value(date time.Time) (decimal.Decimal, error)
}

// Observation is one published monthly index value.
type Observation struct {
	Month time.Time
	Value decimal.Decimal
}

// Series is a Provider backed by an in-memory monthly series, as produced by
// the Hilan scraper or loaded from a file.
type Series struct {
	// Fallback substitutes the nearest available month for out-of-range
	// or missing dates instead of failing.
	Fallback bool

	obs []Observation // ascending by month
}

// NewSeries builds a Series from observations, sorting them by month.
func NewSeries(obs []Observation, fallback bool) *Series {
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Month.Before(sorted[j].Month)
	})
	return &Series{Fallback: fallback, obs: sorted}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.obs)
}

// Value returns the index value for the month of date. When the month is not
// covered and Fallback is on, the nearest observation is substituted with a
// warning; otherwise the lookup fails.
func (s *Series) Value(date time.Time) (decimal.Decimal, error) {
	if len(s.obs) == 0 {
		return decimal.Zero, &parsererror.LookupError{
			Provider: "cpi",
			Date:     date,
			Reason:   "no index data loaded",
		}
	}

	// First observation at or after the requested month.
	idx := sort.Search(len(s.obs), func(i int) bool {
		return !s.obs[i].Month.Before(monthOf(date))
	})

	if idx < len(s.obs) && dateutils.SameMonth(s.obs[idx].Month, date) {
		return s.obs[idx].Value, nil
	}

	if !s.Fallback {
		return decimal.Zero, &parsererror.LookupError{
			Provider: "cpi",
			Date:     date,
			Reason:   "no index value for this month (fallback disabled)",
		}
	}

	nearest := s.nearest(idx)
	log.Warn("No index value for requested month, using nearest available",
		logging.Field{Key: logging.FieldDate, Value: date.Format("01/2006")},
		logging.Field{Key: "nearest", Value: nearest.Month.Format("01/2006")})
	return nearest.Value, nil
}

func (s *Series) nearest(idx int) Observation {
	if idx == 0 {
		return s.obs[0]
	}
	if idx >= len(s.obs) {
		return s.obs[len(s.obs)-1]
	}
	return s.obs[idx-1]
}

func monthOf(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}
