package app

import (
	"fmt"
	"io"
	"path/filepath"

	"gazelab/adapters/archive"
	"gazelab/adapters/csvio"
	"gazelab/adapters/excel"
	"gazelab/adapters/plot"
	"gazelab/domain/metrics"
	"gazelab/internal"
	"gazelab/internal/config"
	"gazelab/internal/pipeline"
	"gazelab/internal/report"
)

// AnalysisService runs the comparison pipeline for a metric and fans the
// result out to the output sinks: CSV tables, console report, publication
// table (console + XLSX), comparison plot and the optional archive.
type AnalysisService struct {
	cfg    *config.Config
	logger *internal.Logger
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(cfg *config.Config, logger *internal.Logger) *AnalysisService {
	return &AnalysisService{cfg: cfg, logger: logger}
}

// Analyze processes one metric end to end.
func (s *AnalysisService) Analyze(spec pipeline.Spec, out io.Writer) error {
	result, err := pipeline.Run(spec, s.cfg.Paths, s.logger)
	if err != nil {
		return err
	}

	report.Write(out, result, s.cfg.Analysis.Alpha)

	if err := s.writeDescriptiveStats(result); err != nil {
		return err
	}
	if err := s.writeStatisticalAnalysis(result); err != nil {
		return err
	}
	if err := s.writeRelativeChange(result); err != nil {
		return err
	}
	if result.Metric == "data_loss" {
		if err := s.writeDataLossTable(result); err != nil {
			return err
		}
	}
	if err := s.writePublicationTable(result, out); err != nil {
		return err
	}
	if err := s.renderPlot(result); err != nil {
		return err
	}
	return s.archiveRun(result)
}

// AnalyzeAll processes every registered metric, continuing past per-metric
// failures so one missing export does not abort the batch.
func (s *AnalysisService) AnalyzeAll(out io.Writer) error {
	var failed []string
	for _, spec := range pipeline.Registry() {
		if err := s.Analyze(spec, out); err != nil {
			s.logger.Error("[Analysis] %s failed: %v", spec.Name, err)
			failed = append(failed, spec.Name)
		}
		fmt.Fprintln(out)
	}
	if len(failed) > 0 {
		return fmt.Errorf("analysis failed for: %v", failed)
	}
	return nil
}

func (s *AnalysisService) outputPath(name string) string {
	return filepath.Join(s.cfg.Paths.OutputDir, name)
}

func (s *AnalysisService) writeDescriptiveStats(result *pipeline.Result) error {
	headers := []string{"eye_tracker", "trial_condition", "count", "mean", "median", "std", "min", "max", "q25", "q75"}
	rows := make([][]string, 0, len(result.Descriptive))
	for _, g := range result.Descriptive {
		rows = append(rows, []string{
			g.Tracker, g.Condition, csvio.FormatInt(g.Count),
			csvio.FormatFloat(g.Mean), csvio.FormatFloat(g.Median), csvio.FormatFloat(g.StdDev),
			csvio.FormatFloat(g.Min), csvio.FormatFloat(g.Max),
			csvio.FormatFloat(g.Q25), csvio.FormatFloat(g.Q75),
		})
	}
	return csvio.WriteTable(s.outputPath(result.Metric+"_descriptive_stats.csv"), headers, rows)
}

func (s *AnalysisService) writeStatisticalAnalysis(result *pipeline.Result) error {
	headers := []string{
		"eye_tracker", "test", "n1", "n2",
		"mean1", "sd1", "mean2", "sd2",
		"t", "df", "p", "p_adjusted",
		"mean_diff", "ci_low", "ci_high", "cohen_d", "effect",
	}

	comparisons := result.Comparisons
	if result.Overall != nil {
		comparisons = append(append([]metrics.Comparison{}, comparisons...), *result.Overall)
	}

	rows := make([][]string, 0, len(comparisons))
	for _, c := range comparisons {
		rows = append(rows, []string{
			c.Tracker, string(c.Test), csvio.FormatInt(c.N1), csvio.FormatInt(c.N2),
			csvio.FormatFloat(c.Mean1), csvio.FormatFloat(c.SD1),
			csvio.FormatFloat(c.Mean2), csvio.FormatFloat(c.SD2),
			csvio.FormatFloat(c.T), csvio.FormatFloat(c.DF),
			csvio.FormatFloat(c.P), csvio.FormatFloat(c.PAdjusted),
			csvio.FormatFloat(c.MeanDiff), csvio.FormatFloat(c.CILow), csvio.FormatFloat(c.CIHigh),
			csvio.FormatFloat(c.CohenD), string(c.Effect),
		})
	}
	return csvio.WriteTable(s.outputPath(result.Metric+"_statistical_analysis.csv"), headers, rows)
}

func (s *AnalysisService) writeRelativeChange(result *pipeline.Result) error {
	if len(result.Relative) == 0 {
		return nil
	}
	headers := []string{"participant_id", "eye_tracker", "change_percent"}
	rows := make([][]string, 0, len(result.Relative))
	for _, cell := range result.Relative {
		rows = append(rows, []string{
			cell.Key.Participant, cell.Key.Tracker, csvio.FormatFloat(cell.Value),
		})
	}
	return csvio.WriteTable(s.outputPath(result.Metric+"_relative_change.csv"), headers, rows)
}

// writeDataLossTable pivots the loss descriptives to one row per tracker with
// a mean-loss column per condition.
func (s *AnalysisService) writeDataLossTable(result *pipeline.Result) error {
	headers := []string{"eye_tracker", result.Contrast.A + "_mean_loss", result.Contrast.B + "_mean_loss"}

	means := make(map[string]map[string]float64)
	for _, g := range result.Descriptive {
		if means[g.Tracker] == nil {
			means[g.Tracker] = make(map[string]float64)
		}
		means[g.Tracker][g.Condition] = g.Mean
	}

	rows := make([][]string, 0, len(result.Trackers))
	for _, tracker := range result.Trackers {
		rows = append(rows, []string{
			tracker,
			csvio.FormatFloat(means[tracker][result.Contrast.A]),
			csvio.FormatFloat(means[tracker][result.Contrast.B]),
		})
	}
	return csvio.WriteTable(s.outputPath("data_loss_table.csv"), headers, rows)
}

func (s *AnalysisService) writePublicationTable(result *pipeline.Result, out io.Writer) error {
	headers, rows := report.PublicationTable(result)

	fmt.Fprintf(out, "\n--- Publication table ---\n")
	for _, row := range rows {
		fmt.Fprintf(out, "%s | %s | n=%s | %s vs %s | t=%s df=%s | p=%s p_adj=%s | d=%s (%s)\n",
			row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], row[8], row[9], row[10])
	}

	return excel.WritePublicationTable(
		s.outputPath(result.Metric+"_publication_table.xlsx"),
		result.Metric, headers, rows)
}

func (s *AnalysisService) renderPlot(result *pipeline.Result) error {
	title := result.Metric
	if !result.OneSample {
		title = fmt.Sprintf("%s: %s vs %s", result.Metric, result.Contrast.A, result.Contrast.B)
	}
	return plot.RenderComparison(s.outputPath(result.Metric+"_comparison.png"), title, result.Descriptive)
}

func (s *AnalysisService) archiveRun(result *pipeline.Result) error {
	if !s.cfg.Archive.Enabled {
		return nil
	}
	store, err := archive.Open(s.cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.SaveRun(result.Metric, result.Comparisons)
	if err != nil {
		return err
	}
	s.logger.Info("[Analysis] archived %s as run %s", result.Metric, runID)
	return nil
}
