package model

// CapacityClass buckets a region's total bed capacity against the
// year's quartiles. B0 is reserved for zero capacity.
type CapacityClass string

const (
	CapacityNone   CapacityClass = "B0"
	CapacityLow    CapacityClass = "B1" // bottom quartile
	CapacityMedium CapacityClass = "B2" // interquartile range
	CapacityHigh   CapacityClass = "B3" // top quartile
)

// PopulationClass buckets a region's homeless count against the year's
// quartiles. H0 is reserved for a zero count.
type PopulationClass string

const (
	PopulationNone   PopulationClass = "H0"
	PopulationLow    PopulationClass = "H1"
	PopulationMedium PopulationClass = "H2"
	PopulationHigh   PopulationClass = "H3"
)

// MatchQuality is the fixed judgment attached to each capacity/population
// combination: how well supply matches demand.
type MatchQuality string

const (
	MatchCriticalNeed MatchQuality = "critical need"
	MatchHighNeed     MatchQuality = "high need"
	MatchMediumNeed   MatchQuality = "medium need"
	MatchGood         MatchQuality = "good match"
	MatchOversupply   MatchQuality = "oversupply"
	MatchNoData       MatchQuality = "no data"
)

// CapacityClassification is one region's capacity/population cross
// classification for a year.
type CapacityClassification struct {
	RegionID   string          `json:"region_id"`
	Year       int             `json:"year"`
	Capacity   CapacityClass   `json:"capacity"`
	Population PopulationClass `json:"population"`
	Quality    MatchQuality    `json:"quality"`
}

// Label returns the composite "B?-H?" label.
func (c CapacityClassification) Label() string {
	return string(c.Capacity) + "-" + string(c.Population)
}
