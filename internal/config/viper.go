package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Dates struct {
		// SlashOrder selects how ambiguous DD/MM vs MM/DD dates are read:
		// "normal" (day first) or "usa" (month first).
		SlashOrder string `mapstructure:"slash_order" yaml:"slash_order"`
	} `mapstructure:"dates" yaml:"dates"`

	Rates struct {
		URL           string `mapstructure:"url" yaml:"url"`
		LocalCurrency string `mapstructure:"local_currency" yaml:"local_currency"`
	} `mapstructure:"rates" yaml:"rates"`

	CPI struct {
		Source   string `mapstructure:"source" yaml:"source"`
		Fallback bool   `mapstructure:"fallback" yaml:"fallback"`
		File     string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"cpi" yaml:"cpi"`

	Report struct {
		Template string `mapstructure:"template" yaml:"template"`
	} `mapstructure:"report" yaml:"report"`
}

// ECBHistoricalRatesURL is the default source of daily reference rates.
const ECBHistoricalRatesURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.zip"

// InitializeConfig loads configuration from defaults, an optional config.yaml
// and IBTAX_-prefixed environment variables, in increasing priority.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ib-tax")
	v.AddConfigPath(".")

	v.SetEnvPrefix("IBTAX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars carry the run.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("dates.slash_order", "normal")

	v.SetDefault("rates.url", ECBHistoricalRatesURL)
	v.SetDefault("rates.local_currency", "ILS")

	v.SetDefault("cpi.source", "cbs")
	v.SetDefault("cpi.fallback", true)
	v.SetDefault("cpi.file", "")

	v.SetDefault("report.template", "")
}

func validateConfig(c *Config) error {
	switch strings.ToLower(c.Dates.SlashOrder) {
	case "normal", "usa":
	default:
		return fmt.Errorf("dates.slash_order must be 'normal' or 'usa', got %q", c.Dates.SlashOrder)
	}

	switch strings.ToLower(c.CPI.Source) {
	case "cbs", "hilan", "file":
	default:
		return fmt.Errorf("cpi.source must be 'cbs', 'hilan' or 'file', got %q", c.CPI.Source)
	}
	if strings.ToLower(c.CPI.Source) == "file" && c.CPI.File == "" {
		return fmt.Errorf("cpi.source 'file' requires cpi.file to be set")
	}

	if c.Rates.LocalCurrency == "" {
		return fmt.Errorf("rates.local_currency must not be empty")
	}

	return nil
}
