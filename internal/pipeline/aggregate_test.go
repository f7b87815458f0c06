package pipeline

import (
	"math"
	"testing"

	"gazelab/domain/metrics"
)

func obs(participant, tracker, condition string, value float64) metrics.Observation {
	return metrics.Observation{
		Participant: participant,
		Tracker:     tracker,
		Condition:   condition,
		Value:       value,
	}
}

func TestAggregate_CollapsesRepeatsToCellMean(t *testing.T) {
	cells := Aggregate([]metrics.Observation{
		obs("P1", "TrackerA", "dark", 3.0),
		obs("P1", "TrackerA", "dark", 5.0),
		obs("P1", "TrackerA", "bright", 4.0),
	})

	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].Key.Condition != "dark" || cells[0].Value != 4.0 || cells[0].Count != 2 {
		t.Errorf("dark cell = %+v, want mean 4.0 over 2 observations", cells[0])
	}
	if cells[1].Key.Condition != "bright" || cells[1].Value != 4.0 {
		t.Errorf("bright cell = %+v, want mean 4.0", cells[1])
	}
}

func TestAggregate_UniqueKeys(t *testing.T) {
	cells := Aggregate([]metrics.Observation{
		obs("P1", "A", "dark", 1),
		obs("P2", "A", "dark", 2),
		obs("P1", "A", "dark", 3),
		obs("P1", "B", "dark", 4),
	})

	seen := make(map[metrics.CellKey]bool)
	for _, cell := range cells {
		if seen[cell.Key] {
			t.Errorf("duplicate cell key %+v", cell.Key)
		}
		seen[cell.Key] = true
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	first := Aggregate([]metrics.Observation{
		obs("P1", "A", "dark", 2),
		obs("P1", "A", "dark", 6),
		obs("P2", "A", "bright", 3),
		obs("P2", "A", "bright", 5),
	})

	// Re-aggregating an already-aggregated table must keep every value.
	again := make([]metrics.Observation, 0, len(first))
	for _, cell := range first {
		again = append(again, obs(cell.Key.Participant, cell.Key.Tracker, cell.Key.Condition, cell.Value))
	}
	second := Aggregate(again)

	if len(first) != len(second) {
		t.Fatalf("cell count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || first[i].Value != second[i].Value {
			t.Errorf("cell %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestAggregate_IgnoresNaN(t *testing.T) {
	cells := Aggregate([]metrics.Observation{
		obs("P1", "A", "dark", math.NaN()),
		obs("P1", "A", "dark", 4),
		obs("P2", "A", "dark", math.NaN()),
	})

	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].Value != 4 || cells[0].Count != 1 {
		t.Errorf("cell = %+v, want value 4 from the single valid observation", cells[0])
	}
}

func TestTrackers_EncounterOrder(t *testing.T) {
	cells := Aggregate([]metrics.Observation{
		obs("P1", "SMI ETG", "dark", 1),
		obs("P1", "Pupil Core", "dark", 2),
		obs("P2", "SMI ETG", "bright", 3),
	})

	trackers := Trackers(cells)
	if len(trackers) != 2 || trackers[0] != "SMI ETG" || trackers[1] != "Pupil Core" {
		t.Errorf("trackers = %v, want [SMI ETG, Pupil Core]", trackers)
	}
}
