package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/customer-xref/internal/dataset"
	"github.com/sells-group/customer-xref/internal/match"
	"github.com/sells-group/customer-xref/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full reconciliation pipeline",
	Long: `Reads both datasets, normalizes and blocks them, matches DS1 address
rows against DS2 by fuzzy name similarity, aggregates matches per DS1
company, and writes the merged table plus a metrics JSON artifact.

Examples:
  # Defaults from config.yaml / environment
  customer-xref run

  # Explicit inputs and outputs
  customer-xref run --ds1 ds1.csv --ds2 ds2.xlsx --output merged.csv --metrics metrics.json

  # Custom column mapping and parallel matching
  customer-xref run --mapping columns.yaml --concurrency 8

  # Excel deliverable
  customer-xref run --format xlsx --output merged.xlsx`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("ds1", "", "first dataset path, .csv or .xlsx (overrides config)")
	f.String("ds2", "", "second dataset path, .csv or .xlsx (overrides config)")
	f.String("output", "", "merged table output path (overrides config)")
	f.String("metrics", "", "metrics JSON output path (overrides config)")
	f.String("format", "", "merged table format: csv or xlsx (overrides config)")
	f.String("mapping", "", "column-mapping YAML file (overrides built-in mappings)")
	f.Float64("postal-threshold", 0, "name score threshold in postal-based blocks (overrides config)")
	f.Float64("city-threshold", 0, "name score threshold in city-based blocks (overrides config)")
	f.Int("concurrency", 0, "parallel matching workers (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applyRunOverrides(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ds1Mapping, ds2Mapping, err := resolveMappings(cfg.Datasets.MappingFile)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	zap.L().Info("starting run",
		zap.String("run_id", runID),
		zap.String("ds1", cfg.Datasets.DS1),
		zap.String("ds2", cfg.Datasets.DS2),
	)

	result, err := pipeline.Run(ctx, pipeline.Config{
		DS1Path:     cfg.Datasets.DS1,
		DS2Path:     cfg.Datasets.DS2,
		DS1Mapping:  ds1Mapping,
		DS2Mapping:  ds2Mapping,
		Thresholds:  match.Thresholds{Postal: cfg.Match.PostalThreshold, City: cfg.Match.CityThreshold},
		Concurrency: cfg.Match.Concurrency,
		MergedPath:  cfg.Output.Merged,
		MetricsPath: cfg.Output.Metrics,
		Format:      cfg.Output.Format,
		RunID:       runID,
	})
	if err != nil {
		return eris.Wrap(err, "run")
	}

	fmt.Printf("Merged rows (DS1 companies): %d\n", result.Companies)
	fmt.Printf("Address-level matches:       %d\n", result.Matches)
	fmt.Printf("Match rate DS1:              %.1f%%\n", result.Metrics.MatchRateDS1*100)
	fmt.Printf("Match rate DS2:              %.1f%%\n", result.Metrics.MatchRateDS2*100)
	fmt.Printf("Merged table written to:     %s\n", cfg.Output.Merged)
	fmt.Printf("Metrics written to:          %s\n", cfg.Output.Metrics)
	return nil
}

// applyRunOverrides copies set flags over the loaded config.
func applyRunOverrides(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("ds1"); v != "" {
		cfg.Datasets.DS1 = v
	}
	if v, _ := cmd.Flags().GetString("ds2"); v != "" {
		cfg.Datasets.DS2 = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output.Merged = v
	}
	if v, _ := cmd.Flags().GetString("metrics"); v != "" {
		cfg.Output.Metrics = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Output.Format = v
	}
	if v, _ := cmd.Flags().GetString("mapping"); v != "" {
		cfg.Datasets.MappingFile = v
	}
	if v, _ := cmd.Flags().GetFloat64("postal-threshold"); v > 0 {
		cfg.Match.PostalThreshold = v
	}
	if v, _ := cmd.Flags().GetFloat64("city-threshold"); v > 0 {
		cfg.Match.CityThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Match.Concurrency = v
	}
}

// resolveMappings returns the per-dataset column mappings, starting from
// the built-in defaults and overlaying a mapping file when configured.
func resolveMappings(path string) (dataset.Mapping, dataset.Mapping, error) {
	ds1 := dataset.DefaultDS1Mapping()
	ds2 := dataset.DefaultDS2Mapping()
	if path == "" {
		return ds1, ds2, nil
	}

	mf, err := dataset.LoadMappingFile(path)
	if err != nil {
		return nil, nil, err
	}
	if mf.DS1 != nil {
		ds1 = mf.DS1
	}
	if mf.DS2 != nil {
		ds2 = mf.DS2
	}
	return ds1, ds2, nil
}
