package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// Summary holds one snapshot's aggregate counts, composition
// percentages, and bed statistics.
type Summary struct {
	Year    int `json:"year"`
	Regions int `json:"regions"`

	TotalHomeless       float64 `json:"total_homeless"`
	ShelteredHomeless   float64 `json:"sheltered_homeless"`
	UnshelteredHomeless float64 `json:"unsheltered_homeless"`
	ShelteredPct        float64 `json:"sheltered_pct"`
	UnshelteredPct      float64 `json:"unsheltered_pct"`

	BedsES         float64 `json:"beds_es"`
	BedsTH         float64 `json:"beds_th"`
	BedsSH         float64 `json:"beds_sh"`
	TotalBeds      float64 `json:"total_beds"`
	TotalBedGap    float64 `json:"total_bed_gap"`
	AvgUtilization float64 `json:"avg_utilization"`
}

// Summarize aggregates one year's records. Composition percentages fall
// back to 0 when the homeless total is zero, matching the per-record
// division policy.
func Summarize(records []model.RegionYearRecord) Summary {
	s := Summary{Regions: len(records)}
	utilizations := make([]float64, 0, len(records))
	for _, rec := range records {
		if s.Year == 0 {
			s.Year = rec.Year
		}
		s.TotalHomeless += rec.TotalHomeless
		s.ShelteredHomeless += rec.ShelteredHomeless
		s.UnshelteredHomeless += rec.UnshelteredHomeless
		s.BedsES += rec.BedsES
		s.BedsTH += rec.BedsTH
		s.BedsSH += rec.BedsSH
		s.TotalBeds += rec.TotalBeds
		s.TotalBedGap += rec.BedGap
		utilizations = append(utilizations, rec.BedUtilizationRate)
	}

	if s.TotalHomeless > 0 {
		s.ShelteredPct = s.ShelteredHomeless / s.TotalHomeless * 100
		s.UnshelteredPct = s.UnshelteredHomeless / s.TotalHomeless * 100
	}
	if len(utilizations) > 0 {
		s.AvgUtilization = stat.Mean(utilizations, nil)
	}
	return s
}

// SummaryDelta is the year-over-year change on a snapshot's aggregates.
type SummaryDelta struct {
	Year           int     `json:"year"`
	HomelessPct    float64 `json:"homeless_pct"`
	ShelteredPct   float64 `json:"sheltered_pct"`
	UnshelteredPct float64 `json:"unsheltered_pct"`
	BedsPct        float64 `json:"beds_pct"`
	Interpolated   bool    `json:"interpolated"`
}

// DeltaSummary computes aggregate percent changes between two summaries.
// anomalous marks the pair as involving the disrupted survey year.
func DeltaSummary(current, prior Summary, anomalous bool, capPct float64) SummaryDelta {
	homeless, interp := YoYChange(current.TotalHomeless, prior.TotalHomeless, anomalous, capPct)
	sheltered, _ := YoYChange(current.ShelteredHomeless, prior.ShelteredHomeless, anomalous, capPct)
	unsheltered, _ := YoYChange(current.UnshelteredHomeless, prior.UnshelteredHomeless, anomalous, capPct)
	beds, _ := YoYChange(current.TotalBeds, prior.TotalBeds, anomalous, capPct)

	return SummaryDelta{
		Year:           current.Year,
		HomelessPct:    homeless,
		ShelteredPct:   sheltered,
		UnshelteredPct: unsheltered,
		BedsPct:        beds,
		Interpolated:   interp,
	}
}
