package csvio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stats.csv")

	headers := []string{"eye_tracker", "mean", "std"}
	rows := [][]string{
		{"SMI ETG", FormatFloat(1.0 / 3.0), FormatFloat(0.123456789012345)},
		{"Pupil Core", FormatFloat(2.5), FormatFloat(math.Pi)},
	}

	if err := WriteTable(path, headers, rows); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	// Full round trip: parsed floats equal the values that were written.
	if got := table.Float(table.Rows[0], "mean"); got != 1.0/3.0 {
		t.Errorf("mean = %v, want exact 1/3", got)
	}
	if got := table.Float(table.Rows[1], "std"); got != math.Pi {
		t.Errorf("std = %v, want exact pi", got)
	}
	if got := table.String(table.Rows[1], "eye_tracker"); got != "Pupil Core" {
		t.Errorf("eye_tracker = %q", got)
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFloat_InvalidCellsBecomeNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vals.csv")
	if err := WriteTable(path, []string{"v"}, [][]string{{""}, {"abc"}, {"2.5"}}); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	if !math.IsNaN(table.Float(table.Rows[0], "v")) {
		t.Error("empty cell should parse as NaN")
	}
	if !math.IsNaN(table.Float(table.Rows[1], "v")) {
		t.Error("non-numeric cell should parse as NaN")
	}
	if table.Float(table.Rows[2], "v") != 2.5 {
		t.Error("numeric cell should parse exactly")
	}
	if !math.IsNaN(table.Float(table.Rows[0], "missing_column")) {
		t.Error("unknown column should parse as NaN")
	}
}

func TestRequireColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cols.csv")
	if err := WriteTable(path, []string{"a", "b"}, nil); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if err := table.RequireColumns("a", "b"); err != nil {
		t.Errorf("unexpected schema error: %v", err)
	}
	if err := table.RequireColumns("a", "c"); err == nil {
		t.Error("expected a schema error for the missing column")
	}
}
