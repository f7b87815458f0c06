package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gazelab/adapters/archive"
	"gazelab/app"
	"gazelab/internal"
	"gazelab/internal/config"
	"gazelab/internal/launcher"
	"gazelab/internal/pipeline"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gazelab",
		Short: "Eye-tracking data-quality study toolkit",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newMenuCmd(),
		newMetricsCmd(),
		newHistoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *internal.Logger, error) {
	// .env is optional; environment variables alone are fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewDefaultLogger(), nil
}

func newAnalyzeCmd() *cobra.Command {
	var all bool
	var conditions string

	cmd := &cobra.Command{
		Use:   "analyze [metric]",
		Short: "Run the comparison pipeline for one metric or for all of them",
		Long: `Run the comparison pipeline: load the metric's CSV export, aggregate to
(participant, eye tracker, condition) cells, summarize each group, test the
condition contrast per tracker (paired when possible, else Welch) with
Bonferroni correction, and write the CSV/PNG/XLSX outputs.

Example: gazelab analyze pupil_size --conditions dark,bright`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			service := app.NewAnalysisService(cfg, logger)

			if all {
				return service.AnalyzeAll(cmd.OutOrStdout())
			}
			if len(args) != 1 {
				return fmt.Errorf("expected a metric name or --all; known metrics: %s", metricNames())
			}

			spec, ok := pipeline.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown metric %q; known metrics: %s", args[0], metricNames())
			}
			if conditions != "" {
				pair := strings.Split(conditions, ",")
				if len(pair) != 2 || spec.OneSample {
					return fmt.Errorf("--conditions expects two comma-separated labels for a two-condition metric")
				}
				spec.Conditions = [2]string{strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])}
			}
			return service.Analyze(spec, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "analyze every registered metric")
	cmd.Flags().StringVar(&conditions, "conditions", "", "override the condition pair, e.g. dark,bright")
	return cmd
}

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive launcher for the participant-facing experiment programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			menu := launcher.NewMenu(cfg.Launcher, cmd.InOrStdin(), cmd.OutOrStdout(), launcher.ExecRunner{}, logger)
			return menu.Loop()
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the registered metrics and their condition contrasts",
		Run: func(cmd *cobra.Command, args []string) {
			for _, spec := range pipeline.Registry() {
				if spec.OneSample {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s one-sample vs 0\n", spec.Name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s vs %s\n", spec.Name, spec.Conditions[0], spec.Conditions[1])
			}
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <metric>",
		Short: "Show archived comparison results for a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := archive.Open(cfg.Archive.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.History(args[0])
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-24s %-11s p=%.4f p_adj=%.4f d=%.2f (%s)\n",
					row.CreatedAt.Format("2006-01-02 15:04"), row.RunID[:8],
					row.Tracker, row.Test, row.P, row.PAdjusted, row.CohenD, row.Effect)
			}
			return nil
		},
	}
}

func metricNames() string {
	names := make([]string, 0)
	for _, spec := range pipeline.Registry() {
		names = append(names, spec.Name)
	}
	return strings.Join(names, ", ")
}
