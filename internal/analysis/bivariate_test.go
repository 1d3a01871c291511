package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

func TestClassifyBivariate(t *testing.T) {
	cases := []struct {
		bedsPct   float64
		unshelPct float64
		want      string
	}{
		{-10, 5, "decrease-increase"},
		{60, -60, "high growth-significant decrease"},
		{0, 0, "low/moderate growth-slight decrease"},
		{49.9, -49.9, "low/moderate growth-slight decrease"},
		{50, 0.1, "high growth-increase"},
		{-0.1, -50, "decrease-significant decrease"},
	}

	for _, tc := range cases {
		got := ClassifyBivariate(tc.bedsPct, tc.unshelPct)
		assert.Equal(t, tc.want, got.Label(), "beds=%v unsheltered=%v", tc.bedsPct, tc.unshelPct)
	}
}

func TestBivariateChanges(t *testing.T) {
	prior := []model.RegionYearRecord{
		{RegionID: "CA-500", Year: 2022, TotalBeds: 100, UnshelteredHomeless: 200},
		{RegionID: "OR-501", Year: 2022, TotalBeds: 50, UnshelteredHomeless: 80},
		{RegionID: "WA-502", Year: 2022, TotalBeds: 10, UnshelteredHomeless: 10}, // gone next year
	}
	current := []model.RegionYearRecord{
		{RegionID: "CA-500", Name: "Los Angeles", State: "CA", Year: 2023, TotalBeds: 90, UnshelteredHomeless: 210},
		{RegionID: "OR-501", Name: "Portland", State: "OR", Year: 2023, TotalBeds: 80, UnshelteredHomeless: 30},
		{RegionID: "TX-700", Year: 2023, TotalBeds: 40, UnshelteredHomeless: 40}, // new this year
	}

	changes := BivariateChanges(prior, current, DefaultGrowthCapPct)
	require.Len(t, changes, 2, "regions present in only one year are excluded")

	assert.Equal(t, "CA-500", changes[0].RegionID)
	assert.InDelta(t, -10.0, changes[0].BedsPct, 1e-9)
	assert.InDelta(t, 5.0, changes[0].UnshelteredPct, 1e-9)
	assert.Equal(t, "decrease-increase", changes[0].Class.Label())

	assert.Equal(t, "OR-501", changes[1].RegionID)
	assert.InDelta(t, 60.0, changes[1].BedsPct, 1e-9)
	assert.InDelta(t, -62.5, changes[1].UnshelteredPct, 1e-9)
	assert.Equal(t, "high growth-significant decrease", changes[1].Class.Label())
}

func TestBivariateChangesZeroBase(t *testing.T) {
	prior := []model.RegionYearRecord{
		{RegionID: "NM-500", Year: 2022, TotalBeds: 0, UnshelteredHomeless: 0},
	}
	current := []model.RegionYearRecord{
		{RegionID: "NM-500", Year: 2023, TotalBeds: 25, UnshelteredHomeless: 0},
	}

	changes := BivariateChanges(prior, current, DefaultGrowthCapPct)
	require.Len(t, changes, 1)
	assert.Equal(t, 999.0, changes[0].BedsPct)
	assert.Equal(t, 0.0, changes[0].UnshelteredPct)
	assert.Equal(t, model.BedsHighGrowth, changes[0].Class.Beds)
	assert.Equal(t, model.UnshelteredSlightDec, changes[0].Class.Unsheltered)
}
