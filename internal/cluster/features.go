package cluster

import "github.com/pit-analytics/shelter-cli/internal/model"

// FeaturesFromRecords builds the clustering input from classified
// records: need-level severity, utilization rate, and the bed gap as a
// ratio of homeless count.
func FeaturesFromRecords(records []model.RegionYearRecord) []FeatureVector {
	vectors := make([]FeatureVector, len(records))
	for i, rec := range records {
		vectors[i] = FeatureVector{
			RegionID:        rec.RegionID,
			SeverityScore:   float64(rec.NeedLevel.Score()),
			UtilizationRate: rec.BedUtilizationRate,
			GapRatio:        rec.BedGapPct / 100,
		}
	}
	return vectors
}
