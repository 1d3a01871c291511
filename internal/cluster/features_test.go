package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

func TestFeaturesFromRecords(t *testing.T) {
	records := []model.RegionYearRecord{
		{RegionID: "CA-500", NeedLevel: model.NeedCritical, BedUtilizationRate: 95, BedGapPct: 80},
		{RegionID: "WY-500", NeedLevel: model.NeedNoData, BedUtilizationRate: 0, BedGapPct: 0},
	}

	vectors := FeaturesFromRecords(records)
	assert.Equal(t, FeatureVector{RegionID: "CA-500", SeverityScore: 5, UtilizationRate: 95, GapRatio: 0.8}, vectors[0])
	assert.Equal(t, FeatureVector{RegionID: "WY-500", SeverityScore: 0, UtilizationRate: 0, GapRatio: 0}, vectors[1])
}
