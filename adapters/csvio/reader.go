package csvio

import (
	"encoding/csv"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gazelab/internal/errors"
)

// Table is an in-memory CSV table with a header row.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string

	columns map[string]int
}

// ReadTable reads a header-row CSV file into a Table
func ReadTable(path string) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.InputMissing(path)
	}

	log.Printf("[Table] Reading CSV file: %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged exports happen; column lookup guards access

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if len(records) == 0 {
		return nil, errors.InputMalformed(path, "missing header row")
	}

	table := &Table{
		Path:    path,
		Headers: records[0],
		Rows:    records[1:],
		columns: make(map[string]int, len(records[0])),
	}
	for i, header := range records[0] {
		table.columns[strings.TrimSpace(header)] = i
	}

	log.Printf("[Table] Loaded %s - Columns: %d, Rows: %d", path, len(table.Headers), len(table.Rows))
	return table, nil
}

// Column returns the index of a named column
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.columns[name]
	return idx, ok
}

// RequireColumns verifies the schema contract of an input file
func (t *Table) RequireColumns(names ...string) error {
	for _, name := range names {
		if _, ok := t.columns[name]; !ok {
			return errors.InputMalformed(t.Path, "missing column "+name)
		}
	}
	return nil
}

// String returns the trimmed cell value for a named column, or "" when the
// row is too short.
func (t *Table) String(row []string, name string) string {
	idx, ok := t.columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Float parses the cell value for a named column. Empty or unparsable cells
// come back as NaN so validity filters can drop them uniformly.
func (t *Table) Float(row []string, name string) float64 {
	raw := t.String(row, name)
	if raw == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
