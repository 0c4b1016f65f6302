package cpi

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fileObservation is one entry of a YAML index table:
//
//	- month: "2023-01"
//	  value: 442.97
type fileObservation struct {
	Month string  `yaml:"month"`
	Value float64 `yaml:"value"`
}

// LoadSeriesFile reads a monthly index series from a YAML file, for offline
// runs or pinning the data used for a filing.
func LoadSeriesFile(path string, fallback bool) (*Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading index file %s: %w", path, err)
	}

	var entries []fileObservation
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing index file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("index file %s is empty", path)
	}

	obs := make([]Observation, 0, len(entries))
	for _, entry := range entries {
		month, err := time.Parse("2006-01", entry.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q in %s: %w", entry.Month, path, err)
		}
		obs = append(obs, Observation{Month: month, Value: decimal.NewFromFloat(entry.Value)})
	}

	return NewSeries(obs, fallback), nil
}
