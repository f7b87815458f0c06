package pipeline

import (
	"math"
	"path/filepath"

	"gazelab/adapters/csvio"
	"gazelab/domain/metrics"
	"gazelab/internal/config"
	"gazelab/internal/errors"
)

// Spec parameterizes one metric analysis: where its rows come from, how a raw
// row becomes a valid observation, and which condition contrast it tests.
// All metrics share the same pipeline; only the Spec varies.
type Spec struct {
	Name       string
	OneSample  bool      // test aggregated values against zero instead of contrasting conditions
	Conditions [2]string // contrast order; MeanDiff = Conditions[0] - Conditions[1]
	Load       func(paths config.PathConfig) ([]metrics.Observation, error)
}

// Registry lists every metric the study analyzes.
func Registry() []Spec {
	return []Spec{
		{
			Name:       "pupil_size",
			Conditions: [2]string{"dark", "bright"},
			Load:       loadPupilSize,
		},
		{
			Name:       "accuracy",
			Conditions: [2]string{"dilated", "constricted"},
			Load:       qualityMetricLoader("accuracy.csv", "accuracy"),
		},
		{
			Name:       "std",
			Conditions: [2]string{"dilated", "constricted"},
			Load:       qualityMetricLoader("std.csv", "std"),
		},
		{
			Name:       "rms_s2s",
			Conditions: [2]string{"dilated", "constricted"},
			Load:       qualityMetricLoader("rms_s2s.csv", "rms_s2s"),
		},
		{
			Name:      "apparent_gaze_shift",
			OneSample: true,
			Load:      qualityMetricLoader("apparent_gaze_shift.csv", "apparent_gaze_shift"),
		},
		{
			Name:       "data_loss",
			Conditions: [2]string{"dark", "bright"},
			Load:       loadDataLoss,
		},
	}
}

// Lookup finds a metric spec by name.
func Lookup(name string) (Spec, bool) {
	for _, spec := range Registry() {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// qualityMetricLoader builds a loader for the quality_metrics exports, which
// all share the participant_id/eye_tracker/trial_condition/<metric> schema.
func qualityMetricLoader(file, valueColumn string) func(config.PathConfig) ([]metrics.Observation, error) {
	return func(paths config.PathConfig) ([]metrics.Observation, error) {
		table, err := csvio.ReadTable(filepath.Join(paths.QualityMetricsDir, file))
		if err != nil {
			return nil, err
		}
		if err := table.RequireColumns("participant_id", "eye_tracker", "trial_condition", valueColumn); err != nil {
			return nil, err
		}

		observations := make([]metrics.Observation, 0, len(table.Rows))
		for _, row := range table.Rows {
			value := table.Float(row, valueColumn)
			if math.IsNaN(value) {
				continue
			}
			observations = append(observations, metrics.Observation{
				Participant: table.String(row, "participant_id"),
				Tracker:     table.String(row, "eye_tracker"),
				Condition:   table.String(row, "trial_condition"),
				Value:       value,
			})
		}
		return observations, nil
	}
}

// loadPupilSize reads the combined pupil export. A row is valid only when
// both channels are present and positive; the two channels then average into
// a single per-row diameter.
func loadPupilSize(paths config.PathConfig) ([]metrics.Observation, error) {
	table, err := csvio.ReadTable(filepath.Join(paths.DataDir, "pupil_size.csv"))
	if err != nil {
		return nil, err
	}
	if err := table.RequireColumns("participant_id", "eye_tracker", "trial_condition", "pup_diam_l", "pup_diam_r"); err != nil {
		return nil, err
	}

	observations := make([]metrics.Observation, 0, len(table.Rows))
	for _, row := range table.Rows {
		left := table.Float(row, "pup_diam_l")
		right := table.Float(row, "pup_diam_r")
		if math.IsNaN(left) || math.IsNaN(right) || left <= 0 || right <= 0 {
			continue
		}
		observations = append(observations, metrics.Observation{
			Participant: table.String(row, "participant_id"),
			Tracker:     table.String(row, "eye_tracker"),
			Condition:   table.String(row, "trial_condition"),
			Value:       (left + right) / 2,
		})
	}
	return observations, nil
}

// loadDataLoss reads the per-device *_nan_statistics.csv exports and derives
// the loss percentage nan_rows/total_rows*100. The cleaners write the
// condition under "condition"; it is renamed to trial_condition here.
func loadDataLoss(paths config.PathConfig) ([]metrics.Observation, error) {
	pattern := filepath.Join(paths.DataDir, "*_nan_statistics.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad data-loss glob %s", pattern)
	}
	if len(files) == 0 {
		return nil, errors.InputMissing(pattern)
	}

	var observations []metrics.Observation
	for _, file := range files {
		table, err := csvio.ReadTable(file)
		if err != nil {
			return nil, err
		}
		if err := table.RequireColumns("participant_id", "eye_tracker", "nan_rows", "total_rows"); err != nil {
			return nil, err
		}
		conditionColumn := "trial_condition"
		if _, ok := table.Column(conditionColumn); !ok {
			conditionColumn = "condition"
			if _, ok := table.Column(conditionColumn); !ok {
				return nil, errors.InputMalformed(file, "missing column trial_condition or condition")
			}
		}

		for _, row := range table.Rows {
			nanRows := table.Float(row, "nan_rows")
			totalRows := table.Float(row, "total_rows")
			if math.IsNaN(nanRows) || math.IsNaN(totalRows) || totalRows <= 0 {
				continue
			}
			observations = append(observations, metrics.Observation{
				Participant: table.String(row, "participant_id"),
				Tracker:     table.String(row, "eye_tracker"),
				Condition:   table.String(row, conditionColumn),
				Value:       nanRows / totalRows * 100,
			})
		}
	}
	return observations, nil
}
