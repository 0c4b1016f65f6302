// Package root contains the root command for the application
package root

import (
	"fininja/ib-tax/internal/config"
	"fininja/ib-tax/internal/cpi"
	"fininja/ib-tax/internal/dividends"
	"fininja/ib-tax/internal/flexcsv"
	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/rates"
	"fininja/ib-tax/internal/report"
	"fininja/ib-tax/internal/taxforms"
	"fininja/ib-tax/internal/trades"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ib-tax",
		Short: "Convert an Interactive Brokers activity statement into Israeli tax-form worksheets.",
		Long: `ib-tax reads an Interactive Brokers activity-statement CSV export and
produces an Excel workbook with the worksheets needed for tax forms
1325 (capital gains, currency- and CPI-adjusted) and 1322/1324
(dividends and withholding tax), all converted to ILS.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ib-tax!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger for all packages
			adapter := logging.NewLogrusAdapterFromLogger(Log)
			logging.SetLogger(adapter)
			flexcsv.SetLogger(adapter)
			trades.SetLogger(adapter)
			dividends.SetLogger(adapter)
			rates.SetLogger(adapter)
			cpi.SetLogger(adapter)
			report.SetLogger(adapter)
			taxforms.SetLogger(adapter)
		},
	}
)

// Init initializes the root command
func Init() {
}
