package taxforms

import (
	"fmt"
	"strings"

	"fininja/ib-tax/internal/config"
	"fininja/ib-tax/internal/cpi"
	"fininja/ib-tax/internal/rates"
)

// NewRateProvider builds the currency-rate provider from configuration.
func NewRateProvider(cfg *config.Config) (rates.Provider, error) {
	return rates.NewECBProvider(cfg.Rates.URL, cfg.Rates.LocalCurrency)
}

// NewCPIProvider builds the index provider selected by cpi.source.
func NewCPIProvider(cfg *config.Config) (cpi.Provider, error) {
	switch strings.ToLower(cfg.CPI.Source) {
	case "cbs":
		return cpi.NewCBSProvider(cfg.CPI.Fallback), nil
	case "hilan":
		return cpi.FetchHilanSeries(cpi.DefaultHilanURL, cfg.CPI.Fallback)
	case "file":
		return cpi.LoadSeriesFile(cfg.CPI.File, cfg.CPI.Fallback)
	}
	return nil, fmt.Errorf("unknown cpi source %q", cfg.CPI.Source)
}
