package pipeline

import (
	"math"
	"testing"

	"gazelab/domain/metrics"
)

func TestDescribe_EightSummaryStats(t *testing.T) {
	cells := []metrics.Cell{
		cell("P1", "A", "dark", 1),
		cell("P2", "A", "dark", 2),
		cell("P3", "A", "dark", 3),
		cell("P4", "A", "dark", 4),
		cell("P1", "A", "bright", 10),
		cell("P2", "A", "bright", 20),
	}

	groups, err := Describe(cells)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	dark := groups[0]
	if dark.Tracker != "A" || dark.Condition != "dark" {
		t.Fatalf("first group = %s/%s, want A/dark (encounter order)", dark.Tracker, dark.Condition)
	}
	if dark.Count != 4 {
		t.Errorf("count = %d, want 4", dark.Count)
	}
	if dark.Mean != 2.5 || dark.Median != 2.5 {
		t.Errorf("mean/median = %v/%v, want 2.5/2.5", dark.Mean, dark.Median)
	}
	if dark.Min != 1 || dark.Max != 4 {
		t.Errorf("min/max = %v/%v, want 1/4", dark.Min, dark.Max)
	}
	if dark.Q25 != 1.5 || dark.Q75 != 3.5 {
		t.Errorf("q25/q75 = %v/%v, want 1.5/3.5", dark.Q25, dark.Q75)
	}
	if math.Abs(dark.StdDev-1.2909944487) > 1e-9 {
		t.Errorf("sample sd = %v, want ~1.291", dark.StdDev)
	}

	bright := groups[1]
	if bright.Condition != "bright" || bright.Count != 2 || bright.Mean != 15 {
		t.Errorf("bright group = %+v", bright)
	}
}
