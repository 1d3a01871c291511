package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/export"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

var (
	reportYear int
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an XLSX report for a year",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.GetSnapshot(ctx, reportYear, store.SnapshotFilter{})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", reportYear)
		}
		if len(records) == 0 {
			return eris.Errorf("no records for year %d (run import first)", reportYear)
		}

		snap := analysis.ClassifySnapshot(records)
		sum := analysis.Summarize(snap.Records)

		var delta *analysis.SummaryDelta
		prior, err := st.GetSnapshot(ctx, reportYear-1, store.SnapshotFilter{})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", reportYear-1)
		}
		if len(prior) > 0 {
			priorSum := analysis.Summarize(analysis.DeriveMetrics(prior))
			anomalous := reportYear == cfg.Analysis.AnomalousYear || reportYear-1 == cfg.Analysis.AnomalousYear
			d := analysis.DeltaSummary(sum, priorSum, anomalous, cfg.Analysis.GrowthCapPct)
			delta = &d
		}

		if err := export.SaveReport(reportOut, snap, sum, delta); err != nil {
			return err
		}

		zap.L().Info("report complete", zap.Int("year", reportYear), zap.String("out", reportOut))
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "survey year (required)")
	reportCmd.Flags().StringVar(&reportOut, "out", "report.xlsx", "output path")
	_ = reportCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(reportCmd)
}
