package model

// BedsChangeClass categorizes the year-over-year percent change in a
// region's total bed capacity.
type BedsChangeClass string

const (
	BedsDecrease   BedsChangeClass = "decrease"            // change < 0
	BedsLowGrowth  BedsChangeClass = "low/moderate growth" // [0, 50)
	BedsHighGrowth BedsChangeClass = "high growth"         // >= 50
)

// UnshelteredChangeClass categorizes the year-over-year percent change in
// a region's unsheltered homeless count.
type UnshelteredChangeClass string

const (
	UnshelteredIncrease  UnshelteredChangeClass = "increase"             // change > 0
	UnshelteredSlightDec UnshelteredChangeClass = "slight decrease"      // (-50, 0]
	UnshelteredSignifDec UnshelteredChangeClass = "significant decrease" // <= -50
)

// BivariateClass is the joint categorization of simultaneous bed-capacity
// and unsheltered-population change. The nine combinations form the
// caller's fixed coloring table; this core only computes the two axes.
type BivariateClass struct {
	Beds        BedsChangeClass        `json:"beds"`
	Unsheltered UnshelteredChangeClass `json:"unsheltered"`
}

// Label returns the composite "{beds}-{unsheltered}" label.
func (c BivariateClass) Label() string {
	return string(c.Beds) + "-" + string(c.Unsheltered)
}

// BivariateChange is one region's classified change between two
// consecutive years. Regions absent from either year never produce one.
type BivariateChange struct {
	RegionID       string         `json:"region_id"`
	Name           string         `json:"name"`
	State          string         `json:"state"`
	Year           int            `json:"year"` // the later of the two years
	BedsPct        float64        `json:"beds_pct"`
	UnshelteredPct float64        `json:"unsheltered_pct"`
	Class          BivariateClass `json:"class"`
}

// TrendPoint is one year's value in a metric trend series. For the
// anomalous survey year the value is synthesized from its neighbors and
// Interpolated is set, so consumers can render the point differently.
type TrendPoint struct {
	Year         int     `json:"year"`
	Value        float64 `json:"value"`
	Interpolated bool    `json:"interpolated"`
}

// DeltaPoint is the percent change between two consecutive years in a
// trend series. Interpolated marks edges that touch the anomalous year.
type DeltaPoint struct {
	Year         int     `json:"year"` // the later year of the pair
	PctChange    float64 `json:"pct_change"`
	Interpolated bool    `json:"interpolated"`
}
