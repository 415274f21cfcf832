// Package pipeline wires the reconciliation stages in their fixed order:
// normalize -> block -> match -> aggregate -> metrics -> sink.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/customer-xref/internal/aggregate"
	"github.com/sells-group/customer-xref/internal/blocking"
	"github.com/sells-group/customer-xref/internal/dataset"
	"github.com/sells-group/customer-xref/internal/match"
	"github.com/sells-group/customer-xref/internal/metrics"
	"github.com/sells-group/customer-xref/internal/normalize"
)

// Config holds everything one run needs.
type Config struct {
	DS1Path    string
	DS2Path    string
	DS1Mapping dataset.Mapping
	DS2Mapping dataset.Mapping

	Thresholds  match.Thresholds
	Concurrency int

	MergedPath  string
	MetricsPath string
	Format      string // "csv" or "xlsx"

	RunID string
}

// Result summarizes one run for the CLI.
type Result struct {
	Companies int
	Matches   int
	Metrics   metrics.Metrics
}

// Run executes the full reconciliation once: read both datasets, normalize,
// block, match, aggregate, compute metrics, and write the merged table and
// metrics artifact. Either both outputs are written or the run fails before
// writing anything.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	log := zap.L().With(zap.String("run_id", cfg.RunID))

	ds1Raw, err := dataset.ReadFile(cfg.DS1Path, cfg.DS1Mapping)
	if err != nil {
		return nil, err
	}
	ds2Raw, err := dataset.ReadFile(cfg.DS2Path, cfg.DS2Mapping)
	if err != nil {
		return nil, err
	}
	log.Info("datasets loaded",
		zap.Int("ds1_rows", len(ds1Raw)),
		zap.Int("ds2_rows", len(ds2Raw)),
	)

	ds1 := normalize.All(ds1Raw)
	ds2 := normalize.All(ds2Raw)

	ix1 := blocking.Build(ds1)
	ix2 := blocking.Build(ds2)
	log.Info("blocking built",
		zap.Int("ds1_blocks", ix1.BlockCount()),
		zap.Int("ds2_blocks", ix2.BlockCount()),
		zap.Int("candidate_pairs", blocking.PairEstimate(ix1, ix2)),
	)

	matcher := &match.Matcher{Thresholds: cfg.Thresholds, Concurrency: cfg.Concurrency}
	matches, err := matcher.Match(ctx, ix1, ix2)
	if err != nil {
		return nil, err
	}
	log.Info("address-level matching done", zap.Int("matches", len(matches)))

	aggregates := aggregate.Aggregate(ds1, ds2, matches)
	stats := metrics.Compute(ds1, ds2, matches, aggregates)

	rows := mergedRows(aggregates)
	if cfg.Format == "xlsx" {
		err = dataset.WriteMergedXLSX(rows, cfg.MergedPath)
	} else {
		err = dataset.WriteMergedCSV(rows, cfg.MergedPath)
	}
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteMetricsJSON(stats, cfg.MetricsPath); err != nil {
		return nil, err
	}

	log.Info("run complete",
		zap.Int("companies", len(aggregates)),
		zap.Int("matches", len(matches)),
		zap.String("merged", cfg.MergedPath),
		zap.String("metrics", cfg.MetricsPath),
	)

	return &Result{
		Companies: len(aggregates),
		Matches:   len(matches),
		Metrics:   stats,
	}, nil
}

// mergedRows converts company aggregates into the output table shape.
func mergedRows(aggregates []aggregate.Company) []dataset.MergedRow {
	rows := make([]dataset.MergedRow, 0, len(aggregates))
	for _, a := range aggregates {
		rows = append(rows, dataset.MergedRow{
			CompanyIDDS1:              a.CompanyIDDS1,
			CompanyNameDS1:            a.CompanyNameDS1,
			LocationsDS1:              a.LocationsDS1,
			LocationsDS1Loose:         a.LocationsDS1Loose,
			MatchedCompanyIDsDS2:      a.MatchedCompanyIDsDS2,
			MatchedCompanyNamesDS2:    a.MatchedCompanyNamesDS2,
			LocationsDS2:              a.LocationsDS2,
			LocationsDS2Loose:         a.LocationsDS2Loose,
			OverlappingLocations:      a.OverlappingLocations,
			OverlappingLocationsLoose: a.OverlappingLocationsLoose,
		})
	}
	return rows
}
