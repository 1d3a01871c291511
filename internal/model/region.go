// Package model defines the data types shared across ingestion, analysis,
// and persistence: region-year count records, derived metrics, and the
// classification labels attached to them.
package model

// Point is a representative location for a region (typically the boundary
// centroid). It is carried through unchanged; no spatial math happens on it.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RegionYearRecord is one region's counts for one reporting year, plus the
// metrics derived from them. Raw counts come from the PIT and HIC tables;
// any column absent in the source file is normalized to 0 at the ingestion
// boundary, so a zero here is indistinguishable from "not reported".
type RegionYearRecord struct {
	RegionID string `json:"region_id"` // CoC number, unique within a year
	Name     string `json:"name"`
	State    string `json:"state"`
	Year     int    `json:"year"`

	// Raw counts.
	BedsES              float64 `json:"beds_es"` // emergency shelter
	BedsTH              float64 `json:"beds_th"` // transitional housing
	BedsSH              float64 `json:"beds_sh"` // safe haven
	TotalBeds           float64 `json:"total_beds"`
	TotalHomeless       float64 `json:"total_homeless"`
	ShelteredHomeless   float64 `json:"sheltered_homeless"`
	UnshelteredHomeless float64 `json:"unsheltered_homeless"`

	Location Point `json:"location"`

	// Derived metrics, populated by analysis.DeriveMetrics.
	BedGap             float64 `json:"bed_gap"`      // positive = shortage
	BedGapPct          float64 `json:"bed_gap_pct"`  // 0 when no homeless counted
	BedUtilizationRate float64 `json:"bed_utilization_rate"`

	// Classification, populated by analysis.ClassifySnapshot.
	NeedLevel NeedLevel `json:"need_level,omitempty"`
}
