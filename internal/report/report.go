package report

import (
	"fmt"
	"io"

	"gazelab/domain/metrics"
	"gazelab/internal/pipeline"
)

// Write renders the human-readable run report: every tracker's group
// summaries and test result, then the overall pooled test. Display groups by
// tracker; correctness never depends on row order.
func Write(w io.Writer, result *pipeline.Result, alpha float64) {
	if result.OneSample {
		fmt.Fprintf(w, "=== %s: one-sample test against 0 ===\n", result.Metric)
	} else {
		fmt.Fprintf(w, "=== %s: %s vs %s ===\n", result.Metric, result.Contrast.A, result.Contrast.B)
	}

	for _, comparison := range result.Comparisons {
		writeComparison(w, result, comparison, alpha)
	}

	for _, skip := range result.Skipped {
		fmt.Fprintf(w, "\n%s: skipped (%s)\n", skip.Tracker, skip.Reason)
	}

	if result.Overall != nil {
		fmt.Fprintf(w, "\n--- Overall (all trackers pooled) ---\n")
		writeComparison(w, result, *result.Overall, alpha)
	}

	if len(result.RelStats) > 0 {
		fmt.Fprintf(w, "\n--- Relative change, %s vs %s (%%) ---\n", result.Contrast.A, result.Contrast.B)
		for _, group := range result.RelStats {
			fmt.Fprintf(w, "%s: mean %.2f%%, median %.2f%%, sd %.2f (n=%d)\n",
				group.Tracker, group.Mean, group.Median, group.StdDev, group.Count)
		}
	}
}

func writeComparison(w io.Writer, result *pipeline.Result, c metrics.Comparison, alpha float64) {
	switch c.Test {
	case metrics.TestOneSample:
		fmt.Fprintf(w, "\n%s (one-sample, n=%d)\n", c.Tracker, c.N1)
		fmt.Fprintf(w, "  value: %.3f ± %.3f\n", c.Mean1, c.SD1)
	case metrics.TestPaired:
		fmt.Fprintf(w, "\n%s (paired, n=%d)\n", c.Tracker, c.N1)
		writeGroups(w, result, c)
	default:
		fmt.Fprintf(w, "\n%s (independent, n1=%d, n2=%d)\n", c.Tracker, c.N1, c.N2)
		writeGroups(w, result, c)
	}

	fmt.Fprintf(w, "  t(%.1f) = %.3f, p = %s%s, p_adj = %s%s\n",
		c.DF, c.T,
		FormatP(c.P), significanceFlag(c.P, alpha),
		FormatP(c.PAdjusted), significanceFlag(c.PAdjusted, alpha))
	fmt.Fprintf(w, "  mean diff = %.3f [%.3f, %.3f], d = %.2f (%s)\n",
		c.MeanDiff, c.CILow, c.CIHigh, c.CohenD, c.Effect)
}

func writeGroups(w io.Writer, result *pipeline.Result, c metrics.Comparison) {
	fmt.Fprintf(w, "  %s: %.3f ± %.3f (n=%d)\n", result.Contrast.A, c.Mean1, c.SD1, c.N1)
	fmt.Fprintf(w, "  %s: %.3f ± %.3f (n=%d)\n", result.Contrast.B, c.Mean2, c.SD2, c.N2)
}

func significanceFlag(p, alpha float64) string {
	if p < alpha {
		return " *"
	}
	return ""
}

// FormatP buckets a p-value for display: <0.001, <0.01, <0.05, else the
// 3-decimal value. Persisted CSVs keep the raw number; only display buckets.
func FormatP(p float64) string {
	switch {
	case p < 0.001:
		return "<0.001"
	case p < 0.01:
		return "<0.01"
	case p < 0.05:
		return "<0.05"
	default:
		return fmt.Sprintf("%.3f", p)
	}
}

// PublicationTable renders the one-row-per-tracker display table with
// rounded and bucketed values.
func PublicationTable(result *pipeline.Result) ([]string, [][]string) {
	headers := []string{"Eye tracker", "Test", "n", "Mean 1 ± SD", "Mean 2 ± SD", "t", "df", "p", "p (adj)", "Cohen's d", "Effect"}

	rows := make([][]string, 0, len(result.Comparisons))
	for _, c := range result.Comparisons {
		n := fmt.Sprintf("%d", c.N1)
		if c.Test == metrics.TestIndependent && c.N1 != c.N2 {
			n = fmt.Sprintf("%d/%d", c.N1, c.N2)
		}
		mean2 := fmt.Sprintf("%.2f ± %.2f", c.Mean2, c.SD2)
		if c.Test == metrics.TestOneSample {
			mean2 = "-"
		}
		rows = append(rows, []string{
			c.Tracker,
			string(c.Test),
			n,
			fmt.Sprintf("%.2f ± %.2f", c.Mean1, c.SD1),
			mean2,
			fmt.Sprintf("%.2f", c.T),
			fmt.Sprintf("%.1f", c.DF),
			FormatP(c.P),
			FormatP(c.PAdjusted),
			fmt.Sprintf("%.2f", c.CohenD),
			string(c.Effect),
		})
	}
	return headers, rows
}
