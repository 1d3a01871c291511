// Package analysis implements the classification engine: per-region
// derived metrics, adaptive quantile thresholds, need-level assignment,
// year-over-year deltas, and the bivariate change grid. Every function
// here is pure; callers pass a full snapshot in and get new values back.
package analysis

import "github.com/pit-analytics/shelter-cli/internal/model"

// DeriveMetrics computes bed gap, bed gap percentage, and bed utilization
// for each record and returns a new slice; the input is not modified.
// Zero denominators resolve to 0 rather than NaN, so downstream code
// never has to guard against undefined values.
func DeriveMetrics(records []model.RegionYearRecord) []model.RegionYearRecord {
	out := make([]model.RegionYearRecord, len(records))
	for i, rec := range records {
		rec.BedGap = rec.TotalHomeless - rec.TotalBeds

		rec.BedGapPct = 0
		if rec.TotalHomeless > 0 {
			rec.BedGapPct = rec.BedGap / rec.TotalHomeless * 100
		}

		rec.BedUtilizationRate = 0
		if rec.TotalBeds > 0 {
			rec.BedUtilizationRate = rec.ShelteredHomeless / rec.TotalBeds * 100
		}

		out[i] = rec
	}
	return out
}
