package flexcsv

import "fininja/ib-tax/internal/logging"

// Logical field names resolved by the column locator.
const (
	ColSection       = "section"
	ColRole          = "role"
	ColTradeType     = "trade_type"
	ColAssetCategory = "asset_category"
	ColCurrency      = "currency"
	ColTicker        = "ticker"
	ColDateTime      = "datetime"
	ColQuantity      = "quantity"
	ColPrice         = "price"
	ColFee           = "fee"
	ColAmount        = "amount"
)

// Columns maps logical field names to column positions in one section. An
// empty map means the section is absent from the statement, which is not an
// error: the caller simply has no rows of that kind.
type Columns map[string]int

// Has reports whether the logical field was located.
func (c Columns) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Get returns the cell of row at the located position of field, or "" when
// the field is missing or the row is too short.
func (c Columns) Get(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Labels of the Trades section header mapped to logical fields.
var tradeHeaderLabels = map[string]string{
	"DataDiscriminator": ColTradeType,
	"Asset Category":    ColAssetCategory,
	"Currency":          ColCurrency,
	"Symbol":            ColTicker,
	"Date/Time":         ColDateTime,
	"Quantity":          ColQuantity,
	"T. Price":          ColPrice,
	"Comm/Fee":          ColFee,
}

// Labels of the Dividends / Withholding Tax section headers.
var dividendHeaderLabels = map[string]string{
	"Currency":    ColCurrency,
	"Date":        ColDateTime,
	"Description": ColTicker,
	"Amount":      ColAmount,
}

// TradeColumns locates the columns of the Trades section.
func (s *Statement) TradeColumns() Columns {
	return s.locate([]string{SectionTrades}, tradeHeaderLabels)
}

// DividendColumns locates the columns shared by the Dividends and
// Withholding Tax sections.
func (s *Statement) DividendColumns() Columns {
	return s.locate([]string{SectionDividends, SectionWithholding}, dividendHeaderLabels)
}

// locate scans for the first header row of any of the given sections and
// maps the recognized labels to their positions.
func (s *Statement) locate(sections []string, labels map[string]string) Columns {
	cols := Columns{}
	for _, row := range s.Rows {
		if Role(row) != RoleHeader || !contains(sections, Section(row)) {
			continue
		}

		cols[ColSection] = 0
		cols[ColRole] = 1
		for idx, label := range row {
			if field, ok := labels[label]; ok {
				cols[field] = idx
			}
		}
		log.Debug("Located section columns",
			logging.Field{Key: logging.FieldSection, Value: Section(row)},
			logging.Field{Key: logging.FieldCount, Value: len(cols)})
		return cols
	}

	log.Info("Section not present in statement",
		logging.Field{Key: logging.FieldSection, Value: sections[0]},
		logging.Field{Key: logging.FieldFile, Value: s.Path})
	return cols
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
