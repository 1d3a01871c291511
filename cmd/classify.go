package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/export"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

var (
	classifyYear   int
	classifyStates []string
	classifyJSON   bool
	classifyOut    string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify shelter need for a year",
	Long:  "Derives bed gap and utilization metrics for one year's records, computes that year's adaptive thresholds, assigns need levels, and writes the results back to the store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.GetSnapshot(ctx, classifyYear, store.SnapshotFilter{States: classifyStates})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", classifyYear)
		}
		if len(records) == 0 {
			return eris.Errorf("no records for year %d (run import first)", classifyYear)
		}

		snap := analysis.ClassifySnapshot(records)

		// Persist derived metrics and levels only on an unfiltered run,
		// so a state-scoped preview cannot overwrite national thresholds.
		if len(classifyStates) == 0 {
			if err := st.SaveSnapshot(ctx, snap.Records); err != nil {
				return err
			}
			if snap.Thresholds != nil {
				if err := st.SaveThresholds(ctx, *snap.Thresholds); err != nil {
					return err
				}
			}
		}

		if classifyOut != "" {
			if err := export.SaveClassificationsCSV(classifyOut, snap); err != nil {
				return err
			}
		}

		if classifyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		formatClassifications(os.Stdout, snap)
		zap.L().Info("classify complete",
			zap.Int("year", snap.Year),
			zap.Int("records", len(snap.Records)),
		)
		return nil
	},
}

func formatClassifications(out io.Writer, snap analysis.ClassifiedSnapshot) {
	if snap.Thresholds != nil {
		cuts := snap.Thresholds.Cuts()
		_, _ = fmt.Fprintf(out, "Year %d bed gap cut points: %.1f / %.1f / %.1f / %.1f\n\n",
			snap.Year, cuts[0], cuts[1], cuts[2], cuts[3])
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COC\tSTATE\tBEDS\tHOMELESS\tGAP\tGAP%\tUTIL%\tNEED")
	_, _ = fmt.Fprintln(w, "---\t-----\t----\t--------\t---\t----\t-----\t----")
	for _, rec := range snap.Records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.1f\t%.1f\t%s\n",
			rec.RegionID, rec.State, rec.TotalBeds, rec.TotalHomeless,
			rec.BedGap, rec.BedGapPct, rec.BedUtilizationRate, rec.NeedLevel)
	}
	_ = w.Flush()
}

func init() {
	classifyCmd.Flags().IntVar(&classifyYear, "year", 0, "survey year (required)")
	classifyCmd.Flags().StringSliceVar(&classifyStates, "states", nil, "limit output to these states (skips persistence)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "emit JSON instead of a table")
	classifyCmd.Flags().StringVar(&classifyOut, "out", "", "also write results to a CSV file")
	_ = classifyCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(classifyCmd)
}
