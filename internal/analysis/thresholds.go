package analysis

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// ErrNoPopulation is returned when a year has no records with a nonzero
// homeless count, leaving nothing to compute thresholds over.
var ErrNoPopulation = eris.New("analysis: no records with homeless population")

// ComputeYearThresholds computes the 20th/40th/60th/80th percentile cut
// points of bed_gap_pct across one year's records, considering only
// regions with a nonzero homeless count. The percentiles use linear
// interpolation between order statistics, so fewer than five distinct
// values still yield four (possibly equal) cut points.
//
// Thresholds are valid only for the year they were computed from.
func ComputeYearThresholds(records []model.RegionYearRecord) (model.YearThresholds, error) {
	var thr model.YearThresholds
	var gaps []float64
	for _, rec := range records {
		if rec.TotalHomeless > 0 {
			gaps = append(gaps, rec.BedGapPct)
		}
		if thr.Year == 0 {
			thr.Year = rec.Year
		}
	}
	if len(gaps) == 0 {
		return model.YearThresholds{}, ErrNoPopulation
	}

	sort.Float64s(gaps)
	thr.Cut20 = quantile(gaps, 0.2)
	thr.Cut40 = quantile(gaps, 0.4)
	thr.Cut60 = quantile(gaps, 0.6)
	thr.Cut80 = quantile(gaps, 0.8)
	return thr, nil
}

// quantile returns the p-quantile of sorted values using linear
// interpolation between adjacent order statistics (the estimator pandas
// and numpy default to). gonum's stat.Quantile offers only the empirical
// and midpoint-interpolated variants, which would shift the cut points
// for small populations.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
