// Package flexcsv reads Interactive Brokers activity-statement CSV exports.
//
// The export is not a rectangular CSV: it interleaves several sections, each
// with its own header line. The first column names the section ("Trades",
// "Dividends", "Withholding Tax", ...), the second column says whether the
// row is the section's header or a data row. Column order changes between
// export versions, so positions are resolved by scanning the header lines.
package flexcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fininja/ib-tax/internal/logging"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// Section and role discriminators of the export.
const (
	SectionTrades      = "Trades"
	SectionDividends   = "Dividends"
	SectionWithholding = "Withholding Tax"

	RoleHeader = "Header"
	RoleData   = "Data"
)

// Statement holds the raw rows of one activity-statement export.
type Statement struct {
	Path string
	Rows [][]string
}

// Load reads the statement at path into memory.
func Load(path string) (*Statement, error) {
	log.Info("Reading flex statement", logging.Field{Key: logging.FieldFile, Value: path})

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening statement %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close statement file")
		}
	}()

	return Read(file, path)
}

// Read parses statement rows from r. name is used in diagnostics only.
func Read(r io.Reader, name string) (*Statement, error) {
	reader := csv.NewReader(r)
	// Sections have different widths, so the row length is not fixed.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing statement %s: %w", name, err)
	}

	log.Debug("Statement read",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return &Statement{Path: path(name), Rows: rows}, nil
}

func path(name string) string {
	if name == "" {
		return "(from reader)"
	}
	return name
}

// Section returns the first column of a row, empty for blank rows.
func Section(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// Role returns the second column of a row, empty for short rows.
func Role(row []string) string {
	if len(row) < 2 {
		return ""
	}
	return row[1]
}
