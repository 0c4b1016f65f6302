package taxforms

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fininja/ib-tax/internal/config"
	"fininja/ib-tax/internal/cpi"
	"fininja/ib-tax/internal/rates"
	"fininja/ib-tax/internal/report"
)

const sampleStatement = `Statement,Header,Field Name,Field Value
Statement,Data,BrokerName,Interactive Brokers
Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Exchange,Quantity,T. Price,C. Price,Proceeds,Comm/Fee,Basis
Trades,Data,Trade,Stocks,USD,XYZ,"2023-03-15, 14:30:00",NASDAQ,10,100,100,1000,-1,0
Trades,Data,ClosedLot,Stocks,USD,XYZ,2023-01-10,NASDAQ,10,90,,,,
Dividends,Header,Currency,Date,Description,Amount
Dividends,Data,USD,2023-02-01,MSFT(US5949181045) Cash Dividend USD 0.68,6.80
Withholding Tax,Header,Currency,Date,Description,Amount,Code
Withholding Tax,Data,USD,2023-02-01,MSFT(US5949181045) Cash Dividend - US Tax,-1.70,
`

// Same statement with the trade dates in the month-first convention an
// account set to a US locale exports.
const usaStatement = `Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Exchange,Quantity,T. Price,C. Price,Proceeds,Comm/Fee,Basis
Trades,Data,Trade,Stocks,USD,XYZ,03/15/2023,NASDAQ,10,100,100,1000,-1,0
Trades,Data,ClosedLot,Stocks,USD,XYZ,01/10/2023,NASDAQ,10,90,,,,
`

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func testRates() rates.Provider {
	return &rates.StaticProvider{
		Local: "ILS",
		Rates: map[string]decimal.Decimal{
			rates.Key("USD", day("2023-01-10")): decimal.NewFromFloat(3.5),
			rates.Key("USD", day("2023-02-01")): decimal.NewFromFloat(3.55),
			rates.Key("USD", day("2023-03-15")): decimal.NewFromFloat(3.6),
		},
	}
}

func testCPI() cpi.Provider {
	parse := func(value string) time.Time {
		t, err := time.Parse("2006-01", value)
		if err != nil {
			panic(err)
		}
		return t
	}
	return cpi.NewSeries([]cpi.Observation{
		{Month: parse("2023-01"), Value: decimal.NewFromInt(440)},
		{Month: parse("2023-03"), Value: decimal.NewFromInt(444)},
	}, true)
}

func newGenerator() *Generator {
	cfg := &config.Config{}
	cfg.Dates.SlashOrder = "normal"
	return &Generator{
		Config: cfg,
		Rates:  testRates(),
		CPI:    testCPI(),
	}
}

func writeStatement(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(body), 0o644))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "u1234567", sampleStatement)

	outPath, err := newGenerator().Generate(dir, "u1234567")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tax_forms_u1234567.xlsx"), outPath)

	file, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer file.Close()

	ticker, err := file.GetCellValue(report.SheetCapitalGains, "C6")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", ticker)

	dividend, err := file.GetCellValue(report.SheetDividends, "D6")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", dividend)
}

func TestGenerateExportsCSV(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "u1234567", sampleStatement)

	g := newGenerator()
	g.ExportCSV = true
	_, err := g.Generate(dir, "u1234567")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "u1234567_closed_lots.csv"))
	assert.FileExists(t, filepath.Join(dir, "u1234567_dividends.csv"))
}

func TestGenerateRetriesAlternateSlashOrder(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "usa", usaStatement)

	// 03/15/2023 cannot be a day-first date, so the first pass fails and
	// the month-first retry carries the run.
	outPath, err := newGenerator().Generate(dir, "usa")
	require.NoError(t, err)

	file, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer file.Close()

	closeDate, err := file.GetCellValue(report.SheetCapitalGains, "M6")
	require.NoError(t, err)
	assert.Equal(t, "15/03/2023", closeDate)
}

func TestGenerateFailsBothSlashOrders(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "bad",
		"Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Exchange,Quantity,T. Price,C. Price,Proceeds,Comm/Fee,Basis\n"+
			"Trades,Data,Trade,Stocks,USD,XYZ,March 15th,NASDAQ,10,100,100,1000,-1,0\n")

	_, err := newGenerator().Generate(dir, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either date convention")
}

func TestGenerateMissingStatement(t *testing.T) {
	_, err := newGenerator().Generate(t.TempDir(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement not found")
}
