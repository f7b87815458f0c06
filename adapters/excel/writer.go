package excel

import (
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gazelab/internal/errors"
)

// WritePublicationTable saves the display-formatted comparison table as a
// single-sheet workbook, overwriting any previous run's file.
func WritePublicationTable(path, sheet string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrapf(err, "failed to name sheet %s", sheet)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "bad header coordinates")
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return errors.Wrapf(err, "failed to write header %s", header)
		}
	}

	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return errors.Wrap(err, "bad cell coordinates")
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrapf(err, "failed to write cell %s", cell)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}

	log.Printf("[Excel] Wrote %s - Rows: %d", path, len(rows))
	return nil
}
