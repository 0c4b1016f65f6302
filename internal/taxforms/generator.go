// Package taxforms drives the whole run: read the statement, extract trades
// and dividends, retry once on a wrong slash-date guess, and write the
// workbook.
package taxforms

import (
	"errors"
	"fmt"
	"path/filepath"

	"fininja/ib-tax/internal/config"
	"fininja/ib-tax/internal/cpi"
	"fininja/ib-tax/internal/dateutils"
	"fininja/ib-tax/internal/dividends"
	"fininja/ib-tax/internal/fileutils"
	"fininja/ib-tax/internal/flexcsv"
	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/models"
	"fininja/ib-tax/internal/parsererror"
	"fininja/ib-tax/internal/rates"
	"fininja/ib-tax/internal/report"
	"fininja/ib-tax/internal/trades"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// Generator wires the pipeline together for one run.
type Generator struct {
	Config *config.Config
	Rates  rates.Provider
	CPI    cpi.Provider
	// Verbosity 1 logs every parsed row and a summary line per lot.
	Verbosity int
	// ExportCSV additionally writes the lots and dividends as plain CSVs.
	ExportCSV bool
}

// Generate processes <dir>/<name>.csv and writes <dir>/tax_forms_<name>.xlsx.
// It returns the path of the written workbook.
func (g *Generator) Generate(dir, name string) (string, error) {
	csvPath := filepath.Join(dir, name+".csv")
	if err := fileutils.RequireFile(csvPath); err != nil {
		return "", fmt.Errorf("statement not found: %w", err)
	}

	stmt, err := flexcsv.Load(csvPath)
	if err != nil {
		return "", err
	}

	order, err := dateutils.ParseSlashOrder(g.Config.Dates.SlashOrder)
	if err != nil {
		return "", err
	}

	result, events, err := g.extract(stmt, order)
	if err != nil {
		// The export does not declare its slash-date convention. A date
		// that fails to parse usually means the guess was wrong, so the
		// whole extraction is retried once the other way. Only date
		// format failures trigger the retry; anything else is real.
		var formatErr *parsererror.FormatError
		if !errors.As(err, &formatErr) {
			return "", err
		}
		log.WithError(err).Warnf("Extraction failed, retrying with %q slash dates", order.Alternate())
		result, events, err = g.extract(stmt, order.Alternate())
		if err != nil {
			return "", fmt.Errorf("statement %s could not be read under either date convention: %w", stmt.Path, err)
		}
	}

	outPath := filepath.Join(dir, "tax_forms_"+name+".xlsx")
	writer := &report.Writer{Template: g.Config.Report.Template}
	if err := writer.Write(outPath, result.Lots, result.SortedByCloseDate, events); err != nil {
		return "", err
	}

	if g.ExportCSV {
		if err := report.WriteLotsCSV(filepath.Join(dir, name+"_closed_lots.csv"), result.Lots, result.SortedByCloseDate); err != nil {
			return "", err
		}
		if err := report.WriteDividendsCSV(filepath.Join(dir, name+"_dividends.csv"), events); err != nil {
			return "", err
		}
	}

	return outPath, nil
}

// extract runs the trades and dividends passes under one slash convention.
func (g *Generator) extract(stmt *flexcsv.Statement, order dateutils.SlashOrder) (*trades.Result, []models.DividendEvent, error) {
	extractor := &trades.Extractor{
		Rates:      g.Rates,
		CPI:        g.CPI,
		SlashOrder: order,
		Verbose:    g.Verbosity >= 1,
	}
	result, err := extractor.Extract(stmt)
	if err != nil {
		return nil, nil, err
	}

	aggregator := &dividends.Aggregator{
		Rates:      g.Rates,
		SlashOrder: order,
	}
	events, err := aggregator.Extract(stmt)
	if err != nil {
		return nil, nil, err
	}

	return result, events, nil
}
