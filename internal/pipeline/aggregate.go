package pipeline

import (
	"math"

	"gazelab/domain/metrics"
)

// Aggregate collapses observations to one cell per (participant, tracker,
// condition): the arithmetic mean of that cell's valid values. NaN values are
// ignored; a cell whose every value is NaN is dropped. Cell order follows the
// first encounter of each key, so re-running over identical input reproduces
// the same table.
func Aggregate(observations []metrics.Observation) []metrics.Cell {
	type accumulator struct {
		sum   float64
		count int
	}

	order := make([]metrics.CellKey, 0, len(observations))
	totals := make(map[metrics.CellKey]*accumulator, len(observations))

	for _, obs := range observations {
		if math.IsNaN(obs.Value) {
			continue
		}
		key := metrics.CellKey{
			Participant: obs.Participant,
			Tracker:     obs.Tracker,
			Condition:   obs.Condition,
		}
		acc, ok := totals[key]
		if !ok {
			acc = &accumulator{}
			totals[key] = acc
			order = append(order, key)
		}
		acc.sum += obs.Value
		acc.count++
	}

	cells := make([]metrics.Cell, 0, len(order))
	for _, key := range order {
		acc := totals[key]
		cells = append(cells, metrics.Cell{
			Key:   key,
			Value: acc.sum / float64(acc.count),
			Count: acc.count,
		})
	}
	return cells
}

// Trackers returns the distinct eye trackers present, in encounter order.
// The count is the Bonferroni family size for the per-tracker tests.
func Trackers(cells []metrics.Cell) []string {
	seen := make(map[string]bool)
	var trackers []string
	for _, cell := range cells {
		if !seen[cell.Key.Tracker] {
			seen[cell.Key.Tracker] = true
			trackers = append(trackers, cell.Key.Tracker)
		}
	}
	return trackers
}

// conditionValues returns the cell values of one tracker (or all trackers if
// tracker is empty) under one condition.
func conditionValues(cells []metrics.Cell, tracker, condition string) []float64 {
	var values []float64
	for _, cell := range cells {
		if tracker != "" && cell.Key.Tracker != tracker {
			continue
		}
		if cell.Key.Condition != condition {
			continue
		}
		values = append(values, cell.Value)
	}
	return values
}
