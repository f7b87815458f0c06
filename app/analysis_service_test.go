package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gazelab/adapters/csvio"
	"gazelab/internal"
	"gazelab/internal/config"
	"gazelab/internal/pipeline"
)

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	qmDir := filepath.Join(base, "quality_metrics")
	require.NoError(t, os.MkdirAll(qmDir, 0o755))

	content := "participant_id,eye_tracker,trial_condition,accuracy\n"
	trackers := []string{"EyeLink 1000 Plus", "Pupil Core"}
	for ti, tracker := range trackers {
		for p := 1; p <= 4; p++ {
			dilated := 0.40 + 0.05*float64(p) + 0.1*float64(ti)
			constricted := 0.30 + 0.04*float64(p) + 0.02*float64(p*p)
			content += fmt.Sprintf("P%d,%s,dilated,%.3f\n", p, tracker, dilated)
			content += fmt.Sprintf("P%d,%s,constricted,%.3f\n", p, tracker, constricted)
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(qmDir, "accuracy.csv"), []byte(content), 0o644))

	return &config.Config{
		Paths: config.PathConfig{
			DataDir:           base,
			QualityMetricsDir: qmDir,
			OutputDir:         filepath.Join(base, "output"),
		},
		Analysis: config.AnalysisConfig{Alpha: 0.05},
	}
}

func TestAnalysisService_AccuracyEndToEnd(t *testing.T) {
	cfg := fixtureConfig(t)
	service := NewAnalysisService(cfg, internal.NewLogger(internal.LogLevelError))

	spec, ok := pipeline.Lookup("accuracy")
	require.True(t, ok)

	var report bytes.Buffer
	require.NoError(t, service.Analyze(spec, &report))

	for _, name := range []string{
		"accuracy_descriptive_stats.csv",
		"accuracy_statistical_analysis.csv",
		"accuracy_relative_change.csv",
		"accuracy_publication_table.xlsx",
		"accuracy_comparison.png",
	} {
		_, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, name))
		require.NoError(t, err, "expected output file %s", name)
	}

	out := report.String()
	require.Contains(t, out, "accuracy: dilated vs constricted")
	require.Contains(t, out, "EyeLink 1000 Plus")
	require.Contains(t, out, "Pupil Core")
	require.Contains(t, out, "Overall (all trackers pooled)")
}

// Reloading the persisted descriptive stats must reproduce the exact
// (tracker, condition) -> summary mapping the run computed.
func TestAnalysisService_DescriptiveStatsRoundTrip(t *testing.T) {
	cfg := fixtureConfig(t)
	logger := internal.NewLogger(internal.LogLevelError)
	service := NewAnalysisService(cfg, logger)

	spec, _ := pipeline.Lookup("accuracy")
	var report bytes.Buffer
	require.NoError(t, service.Analyze(spec, &report))

	result, err := pipeline.Run(spec, cfg.Paths, logger)
	require.NoError(t, err)

	table, err := csvio.ReadTable(filepath.Join(cfg.Paths.OutputDir, "accuracy_descriptive_stats.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, len(result.Descriptive))

	for i, group := range result.Descriptive {
		row := table.Rows[i]
		require.Equal(t, group.Tracker, table.String(row, "eye_tracker"))
		require.Equal(t, group.Condition, table.String(row, "trial_condition"))
		require.Equal(t, group.Mean, table.Float(row, "mean"))
		require.Equal(t, group.Median, table.Float(row, "median"))
		require.Equal(t, group.StdDev, table.Float(row, "std"))
		require.Equal(t, group.Min, table.Float(row, "min"))
		require.Equal(t, group.Max, table.Float(row, "max"))
		require.Equal(t, group.Q25, table.Float(row, "q25"))
		require.Equal(t, group.Q75, table.Float(row, "q75"))
	}
}

func TestAnalysisService_MissingInputFails(t *testing.T) {
	cfg := fixtureConfig(t)
	service := NewAnalysisService(cfg, internal.NewLogger(internal.LogLevelError))

	spec, ok := pipeline.Lookup("rms_s2s")
	require.True(t, ok)

	var report bytes.Buffer
	require.Error(t, service.Analyze(spec, &report))
}
