package report

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"fininja/ib-tax/internal/logging"
	"fininja/ib-tax/internal/models"
)

// closedLotCSV is the flat CSV projection of a closed lot.
type closedLotCSV struct {
	Ticker         string `csv:"Ticker"`
	Currency       string `csv:"Currency"`
	PositionType   string `csv:"Position Type"`
	OpenDate       string `csv:"Open Date"`
	CloseDate      string `csv:"Close Date"`
	Quantity       string `csv:"Quantity"`
	OpenPrice      string `csv:"Open Price"`
	ClosePrice     string `csv:"Close Price"`
	OpenValue      string `csv:"Open Value"`
	CloseValue     string `csv:"Close Value"`
	Profit         string `csv:"Profit"`
	OpenRate       string `csv:"Open Rate"`
	CloseRate      string `csv:"Close Rate"`
	OpenValueILS   string `csv:"Open Value ILS"`
	CloseValueILS  string `csv:"Close Value ILS"`
	ProfitILSForex string `csv:"Profit ILS (Forex Adj)"`
	ProfitILSCPI   string `csv:"Profit ILS (CPI Adj)"`
}

// dividendCSV is the flat CSV projection of a dividend event.
type dividendCSV struct {
	Date              string `csv:"Date"`
	Ticker            string `csv:"Ticker"`
	Currency          string `csv:"Currency"`
	Dividend          string `csv:"Dividend"`
	WithholdingTax    string `csv:"Withholding Tax"`
	Rate              string `csv:"Rate"`
	DividendILS       string `csv:"Dividend ILS"`
	WithholdingTaxILS string `csv:"Withholding Tax ILS"`
}

// WriteLotsCSV writes the closed lots, in close-date order, as a plain CSV
// next to the workbook for spreadsheet-free inspection.
func WriteLotsCSV(path string, lots []models.ClosedLot, order []int) error {
	rows := make([]closedLotCSV, 0, len(lots))
	for _, idx := range order {
		lot := lots[idx]
		rows = append(rows, closedLotCSV{
			Ticker:         lot.Ticker,
			Currency:       lot.Currency,
			PositionType:   string(lot.PositionType),
			OpenDate:       lot.OpenDate,
			CloseDate:      lot.CloseDate,
			Quantity:       lot.Quantity.String(),
			OpenPrice:      lot.OpenPrice.String(),
			ClosePrice:     lot.ClosePrice.String(),
			OpenValue:      lot.OpenValue.String(),
			CloseValue:     lot.CloseValue.String(),
			Profit:         lot.Profit.String(),
			OpenRate:       lot.OpenRate.String(),
			CloseRate:      lot.CloseRate.String(),
			OpenValueILS:   lot.OpenValueILS.String(),
			CloseValueILS:  lot.CloseValueILS.String(),
			ProfitILSForex: lot.ProfitILSForex.String(),
			ProfitILSCPI:   lot.ProfitILSCPI.String(),
		})
	}
	return writeCSV(path, &rows)
}

// WriteDividendsCSV writes the aggregated dividend events as a plain CSV.
func WriteDividendsCSV(path string, events []models.DividendEvent) error {
	rows := make([]dividendCSV, 0, len(events))
	for _, event := range events {
		rows = append(rows, dividendCSV{
			Date:              event.Date,
			Ticker:            event.Ticker,
			Currency:          event.Currency,
			Dividend:          event.Amount.String(),
			WithholdingTax:    event.WithholdingTax.String(),
			Rate:              event.Rate.String(),
			DividendILS:       event.AmountILS.String(),
			WithholdingTaxILS: event.WithholdingTaxILS.String(),
		})
	}
	return writeCSV(path, &rows)
}

func writeCSV(path string, rows interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("error writing CSV file %s: %w", path, err)
	}

	log.Info("CSV export written", logging.Field{Key: logging.FieldFile, Value: path})
	return nil
}
