package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/cluster"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

var clusterYear int

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cross-check need levels with clustering",
	Long:  "Groups one year's regions into three clusters over standardized need features and ranks the clusters by mean severity, as an independent check on the threshold classification.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.GetSnapshot(ctx, clusterYear, store.SnapshotFilter{})
		if err != nil {
			return eris.Wrapf(err, "load snapshot %d", clusterYear)
		}

		snap := analysis.ClassifySnapshot(records)
		result, err := cluster.Validate(cluster.FeaturesFromRecords(snap.Records), clusterOptions())
		if eris.Is(err, cluster.ErrTooFewRegions) {
			fmt.Fprintf(os.Stderr, "Clustering unavailable: year %d has fewer than %d regions.\n",
				clusterYear, cluster.NumClusters)
			return nil
		}
		if err != nil {
			return err
		}

		formatClusters(os.Stdout, clusterYear, result, cluster.Profile(result, snap.Records))
		return nil
	},
}

func formatClusters(out io.Writer, year int, result *cluster.Result, profiles []cluster.GroupProfile) {
	_, _ = fmt.Fprintf(out, "Need groups for %d (rank 0 = highest need)\n\n", year)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tSIZE\tMEAN_SEVERITY\tMEAN_UTIL%\tMEAN_GAP_RATIO\tMEAN_BEDS\tMEAN_HOMELESS")
	for _, g := range result.Groups {
		p := profiles[g.Rank]
		_, _ = fmt.Fprintf(w, "%d\t%d\t%.2f\t%.1f\t%.2f\t%.0f\t%.0f\n",
			g.Rank, g.Size, g.MeanSeverity, g.MeanUtilization, g.MeanGapRatio,
			p.MeanBeds, p.MeanHomeless)
	}
	_ = w.Flush()
}

func init() {
	clusterCmd.Flags().IntVar(&clusterYear, "year", 0, "survey year (required)")
	_ = clusterCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(clusterCmd)
}
