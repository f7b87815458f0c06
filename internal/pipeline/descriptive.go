package pipeline

import (
	"github.com/montanaflynn/stats"

	"gazelab/domain/metrics"
	"gazelab/internal/errors"
)

// Describe computes the descriptive summary per (tracker, condition) group of
// aggregated cells. Groups appear in encounter order; the report regroups by
// tracker for display.
func Describe(cells []metrics.Cell) ([]metrics.GroupStats, error) {
	type groupKey struct {
		tracker   string
		condition string
	}

	order := make([]groupKey, 0)
	groups := make(map[groupKey][]float64)
	for _, cell := range cells {
		key := groupKey{tracker: cell.Key.Tracker, condition: cell.Key.Condition}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], cell.Value)
	}

	summaries := make([]metrics.GroupStats, 0, len(order))
	for _, key := range order {
		summary, err := describeGroup(groups[key])
		if err != nil {
			return nil, errors.Wrapf(err, "describing %s/%s", key.tracker, key.condition)
		}
		summary.Tracker = key.tracker
		summary.Condition = key.condition
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func describeGroup(values []float64) (metrics.GroupStats, error) {
	summary := metrics.GroupStats{Count: len(values)}

	var err error
	if summary.Mean, err = stats.Mean(values); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(values); err != nil {
		return summary, err
	}
	if summary.StdDev, err = stats.StandardDeviationSample(values); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(values); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(values); err != nil {
		return summary, err
	}
	if summary.Q25, err = stats.Percentile(values, 25); err != nil {
		return summary, err
	}
	if summary.Q75, err = stats.Percentile(values, 75); err != nil {
		return summary, err
	}
	return summary, nil
}
