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
	trendsMetric string
	trendsRegion string
	trendsStates []string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show a metric across all stored years",
	Long:  "Aggregates one metric over every stored year, replaces the disrupted survey year with the mean of its neighbors, and reports year-over-year percent change.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		switch trendsMetric {
		case "homeless", "sheltered", "unsheltered", "beds":
		default:
			return eris.Errorf("unknown metric %q", trendsMetric)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		years, err := st.ListYears(ctx)
		if err != nil {
			return err
		}
		if len(years) == 0 {
			return eris.New("store is empty (run import first)")
		}

		values := make(map[int]float64, len(years))
		for _, year := range years {
			records, err := st.GetSnapshot(ctx, year, store.SnapshotFilter{States: trendsStates})
			if err != nil {
				return eris.Wrapf(err, "load snapshot %d", year)
			}
			total, ok := metricTotal(records, trendsMetric, trendsRegion)
			if !ok {
				continue
			}
			values[year] = total
		}
		if len(values) == 0 {
			return eris.Errorf("no data for metric %q", trendsMetric)
		}

		trend := analysis.TrendSeries(values, cfg.Analysis.AnomalousYear)
		deltas := analysis.DeltaSeries(values, cfg.Analysis.AnomalousYear, cfg.Analysis.GrowthCapPct)

		formatTrends(os.Stdout, trendsMetric, trend, deltas)
		return nil
	},
}

// metricTotal sums one metric over a snapshot, optionally scoped to a
// single region. ok is false when the scope matches nothing.
func metricTotal(records []model.RegionYearRecord, metric, regionID string) (float64, bool) {
	var total float64
	var matched bool
	for _, rec := range records {
		if regionID != "" && rec.RegionID != regionID {
			continue
		}
		matched = true
		switch metric {
		case "homeless":
			total += rec.TotalHomeless
		case "sheltered":
			total += rec.ShelteredHomeless
		case "unsheltered":
			total += rec.UnshelteredHomeless
		case "beds":
			total += rec.TotalBeds
		}
	}
	return total, matched
}

func formatTrends(out io.Writer, metric string, trend []model.TrendPoint, deltas []model.DeltaPoint) {
	deltaByYear := make(map[int]model.DeltaPoint, len(deltas))
	for _, d := range deltas {
		deltaByYear[d.Year] = d
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "YEAR\t%s\tYOY%%\tNOTE\n", metric)
	for _, pt := range trend {
		yoy := ""
		note := ""
		if d, ok := deltaByYear[pt.Year]; ok {
			yoy = fmt.Sprintf("%+.1f", d.PctChange)
			if d.Interpolated {
				note = "interpolated"
			}
		}
		if pt.Interpolated {
			note = "interpolated"
		}
		_, _ = fmt.Fprintf(w, "%d\t%.0f\t%s\t%s\n", pt.Year, pt.Value, yoy, note)
	}
	_ = w.Flush()
}

func init() {
	trendsCmd.Flags().StringVar(&trendsMetric, "metric", "homeless", "metric to trend: homeless, sheltered, unsheltered, beds")
	trendsCmd.Flags().StringVar(&trendsRegion, "region", "", "limit to a single CoC number")
	trendsCmd.Flags().StringSliceVar(&trendsStates, "states", nil, "limit to these states")
	rootCmd.AddCommand(trendsCmd)
}
