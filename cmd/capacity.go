package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

var (
	capacityYear   int
	capacityStates bool
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Cross-tabulate bed capacity against population",
	Long:  "Buckets each region's bed capacity and homeless population into that year's quartiles and reports the match quality of each combination, or rolls bed capacity up by state.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.GetSnapshot(ctx, capacityYear, store.SnapshotFilter{})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", capacityYear)
		}
		if len(records) == 0 {
			return eris.Errorf("no records for year %d (run import first)", capacityYear)
		}

		if capacityStates {
			formatStateBeds(os.Stdout, capacityYear, analysis.RollupStateBeds(records))
			return nil
		}

		byID := make(map[string]string, len(records))
		for _, rec := range records {
			byID[rec.RegionID] = rec.State
		}

		classes := analysis.ClassifyCapacity(records)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "COC\tSTATE\tCLASS\tMATCH")
		for _, c := range classes {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.RegionID, byID[c.RegionID], c.Label(), c.Quality)
		}
		return w.Flush()
	},
}

func formatStateBeds(out io.Writer, year int, states []analysis.StateBedCapacity) {
	_, _ = fmt.Fprintf(out, "Bed capacity by state, %d\n\n", year)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATE\tES\tTH\tSH\tTOTAL\tHOMELESS")
	for _, s := range states {
		_, _ = fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
			s.State, s.BedsES, s.BedsTH, s.BedsSH, s.TotalBeds, s.TotalHomeless)
	}
	_ = w.Flush()
}

func init() {
	capacityCmd.Flags().IntVar(&capacityYear, "year", 0, "survey year (required)")
	capacityCmd.Flags().BoolVar(&capacityStates, "by-state", false, "roll bed capacity up by state instead")
	_ = capacityCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(capacityCmd)
}
