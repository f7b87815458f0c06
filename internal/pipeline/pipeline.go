package pipeline

import (
	"gazelab/domain/metrics"
	"gazelab/internal"
	"gazelab/internal/config"
	"gazelab/internal/errors"
)

// Result holds everything one metric run derives. All of it is transient;
// the caller decides which sinks (CSV, report, plot, archive) to feed.
type Result struct {
	Metric      string
	Contrast    Contrast
	OneSample   bool
	Cells       []metrics.Cell
	Trackers    []string
	Descriptive []metrics.GroupStats
	Comparisons []metrics.Comparison
	Overall     *metrics.Comparison
	Relative    []metrics.Cell
	RelStats    []metrics.GroupStats
	Skipped     []metrics.Skip
}

// Run executes the comparison pipeline for one metric spec: load, filter,
// aggregate, describe, test, correct. Presentation is the caller's concern.
func Run(spec Spec, paths config.PathConfig, logger *internal.Logger) (*Result, error) {
	observations, err := spec.Load(paths)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s observations", spec.Name)
	}
	if len(observations) == 0 {
		return nil, errors.New("NO_VALID_ROWS", "no valid observations for "+spec.Name)
	}
	logger.Info("[Pipeline] %s: %d valid observations", spec.Name, len(observations))

	cells := Aggregate(observations)
	trackers := Trackers(cells)
	logger.Info("[Pipeline] %s: %d aggregated cells across %d trackers", spec.Name, len(cells), len(trackers))

	descriptive, err := Describe(cells)
	if err != nil {
		return nil, errors.Wrapf(err, "describing %s groups", spec.Name)
	}

	result := &Result{
		Metric:      spec.Name,
		Contrast:    Contrast{A: spec.Conditions[0], B: spec.Conditions[1]},
		OneSample:   spec.OneSample,
		Cells:       cells,
		Trackers:    trackers,
		Descriptive: descriptive,
	}

	if spec.OneSample {
		result.Comparisons, result.Skipped = OneSampleByTracker(cells)
	} else {
		result.Comparisons, result.Skipped = CompareByTracker(cells, result.Contrast)

		overall, err := CompareOverall(cells, result.Contrast)
		if err != nil {
			logger.Warn("[Pipeline] %s: overall pooled test skipped: %v", spec.Name, err)
		} else {
			result.Overall = &overall
		}

		result.Relative = RelativeChange(cells, result.Contrast)
		if len(result.Relative) > 0 {
			result.RelStats, err = Describe(result.Relative)
			if err != nil {
				return nil, errors.Wrapf(err, "describing %s relative change", spec.Name)
			}
		}
	}

	for _, skip := range result.Skipped {
		logger.Warn("[Pipeline] %s: skipping %s: %s", spec.Name, skip.Tracker, skip.Reason)
	}
	return result, nil
}
