// Package generate handles the tax-form generation command
package generate

import (
	"fininja/ib-tax/cmd/root"
	"fininja/ib-tax/internal/config"
	"fininja/ib-tax/internal/taxforms"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dir         string
	fileName    string
	verbosity   int
	exportCSV   bool
	slashFormat string
)

// Cmd represents the generate command
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the tax-form workbook from a statement export",
	Long: `Generate reads <dir>/<file>.csv, matches trades with their closing lots,
aggregates dividends and withholding tax, converts everything to ILS and
writes <dir>/tax_forms_<file>.xlsx.`,
	Run: generateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing the statement CSV")
	Cmd.Flags().StringVarP(&fileName, "file", "f", "", "Statement file base name, without the .csv suffix")
	Cmd.Flags().IntVarP(&verbosity, "verbosity", "v", 0, "0 = quiet, 1 = log every parsed row and a per-lot summary")
	Cmd.Flags().BoolVar(&exportCSV, "csv", false, "Also export the computed lots and dividends as CSV files")
	Cmd.Flags().StringVar(&slashFormat, "slash-format", "", "First guess for ambiguous slash dates: 'normal' (day/month) or 'usa' (month/day)")
	if err := Cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}
}

func generateFunc(cmd *cobra.Command, args []string) {
	if verbosity >= 1 {
		root.Log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}
	if slashFormat != "" {
		cfg.Dates.SlashOrder = slashFormat
	}

	rateProvider, err := taxforms.NewRateProvider(cfg)
	if err != nil {
		root.Log.Fatalf("Error loading currency rates: %v", err)
	}
	cpiProvider, err := taxforms.NewCPIProvider(cfg)
	if err != nil {
		root.Log.Fatalf("Error loading price index data: %v", err)
	}

	generator := &taxforms.Generator{
		Config:    cfg,
		Rates:     rateProvider,
		CPI:       cpiProvider,
		Verbosity: verbosity,
		ExportCSV: exportCSV,
	}

	outPath, err := generator.Generate(dir, fileName)
	if err != nil {
		root.Log.Fatalf("Error generating tax forms: %v", err)
	}

	root.Log.Infof("Tax forms written to %s", outPath)
}
