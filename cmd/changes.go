package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/model"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

var (
	changesFrom int
	changesTo   int
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Classify capacity change between two years",
	Long:  "Compares each region's bed capacity and unsheltered count between two stored years and assigns a combined change class.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if changesFrom >= changesTo {
			return eris.Errorf("--from (%d) must precede --to (%d)", changesFrom, changesTo)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		prior, err := st.GetSnapshot(ctx, changesFrom, store.SnapshotFilter{})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", changesFrom)
		}
		current, err := st.GetSnapshot(ctx, changesTo, store.SnapshotFilter{})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", changesTo)
		}
		if len(prior) == 0 || len(current) == 0 {
			return eris.Errorf("both years must have records (%d: %d, %d: %d)",
				changesFrom, len(prior), changesTo, len(current))
		}

		changes := analysis.BivariateChanges(
			analysis.DeriveMetrics(prior),
			analysis.DeriveMetrics(current),
			cfg.Analysis.GrowthCapPct,
		)

		formatChanges(os.Stdout, changesFrom, changesTo, changes)
		return nil
	},
}

func formatChanges(out io.Writer, from, to int, changes []model.BivariateChange) {
	_, _ = fmt.Fprintf(out, "Capacity change %d -> %d (%d regions in both years)\n\n", from, to, len(changes))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COC\tBEDS%\tUNSHELTERED%\tCLASS")
	for _, c := range changes {
		_, _ = fmt.Fprintf(w, "%s\t%+.1f\t%+.1f\t%s\n",
			c.RegionID, c.BedsPct, c.UnshelteredPct, c.Class.Label())
	}
	_ = w.Flush()
}

func init() {
	changesCmd.Flags().IntVar(&changesFrom, "from", 0, "baseline year (required)")
	changesCmd.Flags().IntVar(&changesTo, "to", 0, "comparison year (required)")
	_ = changesCmd.MarkFlagRequired("from")
	_ = changesCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(changesCmd)
}
