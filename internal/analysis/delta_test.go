package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYoYChange(t *testing.T) {
	pct, interp := YoYChange(100, 50, false, DefaultGrowthCapPct)
	assert.Equal(t, 100.0, pct)
	assert.False(t, interp)

	pct, _ = YoYChange(0, 0, false, DefaultGrowthCapPct)
	assert.Equal(t, 0.0, pct)

	// Growth from a zero base hits the cap, not an error or +Inf.
	pct, _ = YoYChange(10, 0, false, DefaultGrowthCapPct)
	assert.Equal(t, 999.0, pct)

	pct, _ = YoYChange(75, 100, false, DefaultGrowthCapPct)
	assert.Equal(t, -25.0, pct)

	_, interp = YoYChange(100, 50, true, DefaultGrowthCapPct)
	assert.True(t, interp)
}

func TestYoYChangeConfigurableCap(t *testing.T) {
	pct, _ := YoYChange(10, 0, false, 500)
	assert.Equal(t, 500.0, pct)
}

func TestInterpolateAnomalous(t *testing.T) {
	assert.Equal(t, 1100.0, InterpolateAnomalous(1000, 1200))
}

func TestTrendSeriesInterpolatesAnomalousYear(t *testing.T) {
	values := map[int]float64{
		2019: 900,
		2020: 1000,
		2021: 123, // disrupted count, replaced below
		2022: 1200,
	}

	points := TrendSeries(values, 2021)
	require.Len(t, points, 4)

	assert.Equal(t, 2021, points[2].Year)
	assert.Equal(t, 1100.0, points[2].Value)
	assert.True(t, points[2].Interpolated)

	// Remaining points pass through untouched.
	assert.Equal(t, 1000.0, points[1].Value)
	assert.False(t, points[1].Interpolated)
	assert.Equal(t, 1200.0, points[3].Value)
	assert.False(t, points[3].Interpolated)
}

func TestTrendSeriesAnomalousWithoutNeighbors(t *testing.T) {
	// No following year: the surveyed value stands and is not flagged.
	values := map[int]float64{2020: 1000, 2021: 800}
	points := TrendSeries(values, 2021)
	require.Len(t, points, 2)
	assert.Equal(t, 800.0, points[1].Value)
	assert.False(t, points[1].Interpolated)
}

func TestDeltaSeries(t *testing.T) {
	values := map[int]float64{
		2019: 800,
		2020: 1000,
		2021: 50, // anomalous, synthesized to 1100
		2022: 1200,
	}

	deltas := DeltaSeries(values, 2021, DefaultGrowthCapPct)
	require.Len(t, deltas, 3)

	assert.Equal(t, 2020, deltas[0].Year)
	assert.InDelta(t, 25.0, deltas[0].PctChange, 1e-9)
	assert.False(t, deltas[0].Interpolated)

	// 2020 -> synthesized 1100: +10%, flagged.
	assert.Equal(t, 2021, deltas[1].Year)
	assert.InDelta(t, 10.0, deltas[1].PctChange, 1e-9)
	assert.True(t, deltas[1].Interpolated)

	// synthesized 1100 -> 1200, still flagged.
	assert.Equal(t, 2022, deltas[2].Year)
	assert.InDelta(t, 100.0/11.0, deltas[2].PctChange, 1e-9)
	assert.True(t, deltas[2].Interpolated)
}

func TestDeltaSeriesExcludesGaps(t *testing.T) {
	// 2021 missing entirely: no pair touches it, no value is invented.
	values := map[int]float64{2019: 100, 2020: 110, 2022: 120}

	deltas := DeltaSeries(values, 2021, DefaultGrowthCapPct)
	require.Len(t, deltas, 1)
	assert.Equal(t, 2020, deltas[0].Year)
}
