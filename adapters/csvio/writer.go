package csvio

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gazelab/internal/errors"
)

// WriteTable writes a header-row CSV file, overwriting any previous run's
// output. No atomicity is promised; these are derived files a re-run rebuilds.
func WriteTable(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(headers); err != nil {
		return errors.Wrapf(err, "failed to write header to %s", path)
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "failed to write rows to %s", path)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", path)
	}

	log.Printf("[Table] Wrote %s - Rows: %d", path, len(rows))
	return nil
}

// FormatFloat renders a float with full round-trip precision, so a written
// table reloads to the exact values that produced it.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatInt renders an integer cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}
