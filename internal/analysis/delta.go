package analysis

import (
	"sort"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// DefaultGrowthCapPct caps the reported percent change when the prior
// value is zero and the current one is positive. Its only purpose is to
// keep growth-from-nothing on a bounded scale; it carries no meaning
// beyond "large".
const DefaultGrowthCapPct = 999

// YoYChange returns the signed percent change from prior to current.
// A zero prior yields capPct when current is positive and 0 otherwise,
// so the result is always defined. The returned flag mirrors anomalous:
// callers propagate it so consumers can mark comparisons that involve
// the disrupted survey year.
func YoYChange(current, prior float64, anomalous bool, capPct float64) (float64, bool) {
	if prior == 0 {
		if current > 0 {
			return capPct, anomalous
		}
		return 0, anomalous
	}
	return (current - prior) / prior * 100, anomalous
}

// InterpolateAnomalous synthesizes a value for the anomalous year as the
// arithmetic mean of the neighboring years' values.
func InterpolateAnomalous(prev, next float64) float64 {
	return (prev + next) / 2
}

// TrendSeries orders a year-indexed metric into a series of points,
// replacing the anomalous year's value with the mean of its immediate
// neighbors when both are present. The replaced point is flagged so the
// consuming layer can distinguish it from surveyed values. Years missing
// from the input are simply absent from the output; no value is invented
// for them.
func TrendSeries(values map[int]float64, anomalousYear int) []model.TrendPoint {
	years := make([]int, 0, len(values))
	for y := range values {
		years = append(years, y)
	}
	sort.Ints(years)

	points := make([]model.TrendPoint, 0, len(years))
	for _, y := range years {
		pt := model.TrendPoint{Year: y, Value: values[y]}
		if y == anomalousYear {
			prev, hasPrev := values[y-1]
			next, hasNext := values[y+1]
			if hasPrev && hasNext {
				pt.Value = InterpolateAnomalous(prev, next)
				pt.Interpolated = true
			}
		}
		points = append(points, pt)
	}
	return points
}

// DeltaSeries computes the percent change between each pair of
// consecutive years present in the input. Pairs with a gap (either year
// missing) are excluded rather than bridged. Edges touching the
// anomalous year use its synthesized value and are flagged.
func DeltaSeries(values map[int]float64, anomalousYear int, capPct float64) []model.DeltaPoint {
	points := TrendSeries(values, anomalousYear)

	var deltas []model.DeltaPoint
	for i := 1; i < len(points); i++ {
		cur, prev := points[i], points[i-1]
		if cur.Year != prev.Year+1 {
			continue
		}
		anomalous := cur.Interpolated || prev.Interpolated
		pct, interp := YoYChange(cur.Value, prev.Value, anomalous, capPct)
		deltas = append(deltas, model.DeltaPoint{Year: cur.Year, PctChange: pct, Interpolated: interp})
	}
	return deltas
}
