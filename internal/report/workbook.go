// Package report renders computed lots and dividends into the fixed-layout
// workbook used for Israeli tax forms 1325, 1322 and 1324, and into plain
// CSV exports.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// Worksheet names of the output workbook.
const (
	SheetCapitalGains    = "CapitalGains"
	SheetCapitalGainsCPI = "CapitalGainsCPI"
	SheetDividends       = "Dividends"
)

// Rows 1-5 are the header region; totals live in row 5, data starts at 6.
const (
	totalsRow    = 5
	firstDataRow = 6
)

// Writer renders the workbook. When Template names an xlsx file its sheets
// and styling are kept and only cells are filled in; otherwise a bare
// workbook with the three sheets is generated.
type Writer struct {
	Template string
}

// Write renders lots (in the given close-date order) and dividend events
// into the workbook at path.
func (w *Writer) Write(path string, lots []models.ClosedLot, order []int, events []models.DividendEvent) error {
	file, err := w.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := w.writeCapitalGains(file, SheetCapitalGains, lots, order, forexVariant); err != nil {
		return err
	}
	if err := w.writeCapitalGains(file, SheetCapitalGainsCPI, lots, order, cpiVariant); err != nil {
		return err
	}
	if len(events) > 0 {
		if err := w.writeDividends(file, events); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook %s: %w", path, err)
	}

	log.Info("Workbook written",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(lots)})
	return nil
}

func (w *Writer) open() (*excelize.File, error) {
	if w.Template != "" {
		file, err := excelize.OpenFile(w.Template)
		if err != nil {
			return nil, fmt.Errorf("error opening template %s: %w", w.Template, err)
		}
		// Older templates predate the CPI sheet.
		for _, sheet := range []string{SheetCapitalGains, SheetCapitalGainsCPI, SheetDividends} {
			idx, err := file.GetSheetIndex(sheet)
			if err != nil {
				return nil, fmt.Errorf("error inspecting template: %w", err)
			}
			if idx < 0 {
				if _, err := file.NewSheet(sheet); err != nil {
					return nil, fmt.Errorf("error creating sheet %s: %w", sheet, err)
				}
			}
		}
		return file, nil
	}

	file := excelize.NewFile()
	for _, sheet := range []string{SheetCapitalGains, SheetCapitalGainsCPI, SheetDividends} {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("error creating sheet %s: %w", sheet, err)
		}
	}
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("error removing default sheet: %w", err)
	}
	return file, nil
}

// capital-gains adjustment variants: each sheet shows the same lots with a
// different adjusted cost basis and final profit.
type gainsVariant struct {
	ratio    func(models.ClosedLot) decimal.Decimal
	adjusted func(models.ClosedLot) decimal.Decimal
	profit   func(models.ClosedLot) decimal.Decimal
}

var forexVariant = gainsVariant{
	ratio:    func(l models.ClosedLot) decimal.Decimal { return l.RateRatio },
	adjusted: func(l models.ClosedLot) decimal.Decimal { return l.OpenValueILSForexAdj },
	profit:   func(l models.ClosedLot) decimal.Decimal { return l.ProfitILSForex },
}

var cpiVariant = gainsVariant{
	ratio:    func(l models.ClosedLot) decimal.Decimal { return l.CPIRatio },
	adjusted: func(l models.ClosedLot) decimal.Decimal { return l.OpenValueILSCPIAdj },
	profit:   func(l models.ClosedLot) decimal.Decimal { return l.ProfitILSCPI },
}

func (w *Writer) writeCapitalGains(file *excelize.File, sheet string, lots []models.ClosedLot, order []int, variant gainsVariant) error {
	totalProfit := decimal.Zero
	totalProceeds := decimal.Zero

	for line, lotIdx := range order {
		lot := lots[lotIdx]
		row := firstDataRow + line

		cells := map[string]interface{}{
			"B": line + 1,
			"C": lot.Ticker,
			"E": num(lot.CloseValue),
			"F": lot.OpenDate,
			"G": num(lot.OpenValue),
			"H": num(lot.OpenValueILS),
			"I": num(lot.OpenRate),
			"J": num(lot.CloseRate),
			"K": num(variant.ratio(lot)),
			"L": num(variant.adjusted(lot)),
			"M": lot.CloseDate,
			"N": num(lot.CloseValueILS),
			// Informational columns past the form's own layout.
			"U": string(lot.PositionType),
			"V": num(lot.Quantity),
			"W": num(lot.OpenPrice),
			"X": num(lot.ClosePrice),
			"Y": num(lot.Profit),
			"Z": lot.Currency,
		}

		// The form separates gains from losses into their own columns.
		profit := variant.profit(lot)
		if profit.Sign() >= 0 {
			cells["O"] = num(profit)
		} else {
			cells["P"] = num(profit)
		}

		if err := setCells(file, sheet, row, cells); err != nil {
			return err
		}

		totalProfit = totalProfit.Add(profit)
		totalProceeds = totalProceeds.Add(lot.Proceeds())
	}

	return setCells(file, sheet, totalsRow, map[string]interface{}{
		"R": num(totalProfit),
		"S": num(totalProceeds),
	})
}

func (w *Writer) writeDividends(file *excelize.File, events []models.DividendEvent) error {
	totalDividends := decimal.Zero
	totalDividendsILS := decimal.Zero
	totalWithholding := decimal.Zero
	totalWithholdingILS := decimal.Zero
	totalNet := decimal.Zero
	totalNetILS := decimal.Zero

	for line, event := range events {
		row := firstDataRow + line
		cells := map[string]interface{}{
			"B": line + 1,
			"C": event.Date,
			"D": event.Ticker,
			"E": num(event.Amount),
			"F": num(event.WithholdingTax),
			"G": num(event.Rate),
			"H": num(event.AmountILS),
			"I": num(event.WithholdingTaxILS),
		}
		if err := setCells(file, SheetDividends, row, cells); err != nil {
			return err
		}

		totalDividends = totalDividends.Add(event.Amount)
		totalDividendsILS = totalDividendsILS.Add(event.AmountILS)
		totalWithholding = totalWithholding.Add(event.WithholdingTax)
		totalWithholdingILS = totalWithholdingILS.Add(event.WithholdingTaxILS)
		totalNet = totalNet.Add(event.NetAmount())
		totalNetILS = totalNetILS.Add(event.NetAmountILS())
	}

	return setCells(file, SheetDividends, totalsRow, map[string]interface{}{
		"E": num(totalDividends),
		"F": num(totalWithholding),
		"H": num(totalDividendsILS),
		"I": num(totalWithholdingILS),
		"K": num(totalNet),
		"L": num(totalNetILS),
	})
}

func setCells(file *excelize.File, sheet string, row int, cells map[string]interface{}) error {
	for col, value := range cells {
		cell := fmt.Sprintf("%s%d", col, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("error writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
