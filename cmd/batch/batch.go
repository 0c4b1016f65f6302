// Package batch handles the directory-wide generation command
package batch

import (
	"fininja/ib-tax/cmd/root"
	"fininja/ib-tax/internal/config"
	"fininja/ib-tax/internal/taxforms"

	"github.com/spf13/cobra"
)

var (
	dir         string
	exportCSV   bool
	slashFormat string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate tax-form workbooks for every statement in a directory",
	Long: `Batch finds every statement CSV in the directory and runs the generation
for each one, writing one workbook per statement. A statement that fails
does not stop the rest.`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing the statement CSVs")
	Cmd.Flags().BoolVar(&exportCSV, "csv", false, "Also export the computed lots and dividends as CSV files")
	Cmd.Flags().StringVar(&slashFormat, "slash-format", "", "First guess for ambiguous slash dates: 'normal' (day/month) or 'usa' (month/day)")
}

func batchFunc(cmd *cobra.Command, args []string) {
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
		ExportCSV: exportCSV,
	}

	results, err := generator.GenerateAll(dir)
	if err != nil {
		root.Log.Fatalf("Error processing directory: %v", err)
	}

	var failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
			root.Log.Errorf("%s: %v", result.Name, result.Err)
			continue
		}
		root.Log.Infof("Tax forms written to %s", result.Output)
	}
	if failed > 0 {
		root.Log.Fatalf("%d of %d statements failed", failed, len(results))
	}
}
