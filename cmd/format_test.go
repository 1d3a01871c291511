package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/model"
)

func TestFormatClassifications(t *testing.T) {
	snap := analysis.ClassifiedSnapshot{
		Year:       2023,
		Thresholds: &model.YearThresholds{Year: 2023, Cut20: -10, Cut40: 10, Cut60: 30, Cut80: 60},
		Records: []model.RegionYearRecord{
			{RegionID: "CA-500", State: "CA", TotalBeds: 1550, TotalHomeless: 10000,
				BedGap: 8450, BedGapPct: 84.5, BedUtilizationRate: 161.3, NeedLevel: model.NeedCritical},
		},
	}

	var buf bytes.Buffer
	formatClassifications(&buf, snap)

	out := buf.String()
	assert.Contains(t, out, "-10.0 / 10.0 / 30.0 / 60.0")
	assert.Contains(t, out, "CA-500")
	assert.Contains(t, out, "CRITICAL")
}

func TestFormatChanges(t *testing.T) {
	changes := []model.BivariateChange{
		{RegionID: "CA-500", BedsPct: -10, UnshelteredPct: 5,
			Class: model.BivariateClass{Beds: model.BedsDecrease, Unsheltered: model.UnshelteredIncrease}},
	}

	var buf bytes.Buffer
	formatChanges(&buf, 2022, 2023, changes)

	out := buf.String()
	assert.Contains(t, out, "2022 -> 2023")
	assert.Contains(t, out, "decrease-increase")
	assert.Contains(t, out, "-10.0")
}

func TestMetricTotal(t *testing.T) {
	records := []model.RegionYearRecord{
		{RegionID: "CA-500", TotalHomeless: 100, TotalBeds: 40, ShelteredHomeless: 30, UnshelteredHomeless: 70},
		{RegionID: "OR-501", TotalHomeless: 50, TotalBeds: 60, ShelteredHomeless: 45, UnshelteredHomeless: 5},
	}

	total, ok := metricTotal(records, "homeless", "")
	assert.True(t, ok)
	assert.Equal(t, 150.0, total)

	total, ok = metricTotal(records, "beds", "OR-501")
	assert.True(t, ok)
	assert.Equal(t, 60.0, total)

	_, ok = metricTotal(records, "homeless", "XX-000")
	assert.False(t, ok, "unknown region matches nothing")
}
