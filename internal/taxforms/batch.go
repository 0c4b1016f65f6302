package taxforms

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fininja/ib-tax/internal/logging"
)

// BatchResult is the outcome of one statement in a batch run.
type BatchResult struct {
	Name   string
	Output string
	Err    error
}

// Statements lists the statement names (file names without the .csv
// extension) in dir, skipping the CSV exports a previous run left behind.
func Statements(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if strings.HasSuffix(name, "_closed_lots") || strings.HasSuffix(name, "_dividends") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GenerateAll runs Generate for every statement in dir. A failing statement
// does not stop the batch; its error is carried in the result.
func (g *Generator) GenerateAll(dir string) ([]BatchResult, error) {
	names, err := Statements(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no statement files found in %s", dir)
	}

	log.Info("Processing statements",
		logging.Field{Key: logging.FieldCount, Value: len(names)})

	results := make([]BatchResult, 0, len(names))
	for _, name := range names {
		output, err := g.Generate(dir, name)
		if err != nil {
			log.WithError(err).Warn("Statement failed, continuing",
				logging.Field{Key: logging.FieldFile, Value: name})
		}
		results = append(results, BatchResult{Name: name, Output: output, Err: err})
	}
	return results, nil
}
