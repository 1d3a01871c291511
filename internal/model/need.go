package model

import "github.com/rotisserie/eris"

// NeedLevel is the ordinal classification of a region's shelter-bed
// shortage for one year. Levels other than NeedNoData are assigned from
// that year's own bed-gap-percentage distribution, so the same absolute
// gap can land in different levels in different years.
type NeedLevel string

const (
	NeedNoData    NeedLevel = "NO_DATA" // no homeless counted; nothing to classify
	NeedExcellent NeedLevel = "EXCELLENT"
	NeedGood      NeedLevel = "GOOD"
	NeedModerate  NeedLevel = "MODERATE"
	NeedHigh      NeedLevel = "HIGH"
	NeedCritical  NeedLevel = "CRITICAL"
)

// needScores maps each level to its integer severity, used as a clustering
// feature and for ranking clusters.
var needScores = map[NeedLevel]int{
	NeedNoData:    0,
	NeedExcellent: 1,
	NeedGood:      2,
	NeedModerate:  3,
	NeedHigh:      4,
	NeedCritical:  5,
}

// Score returns the severity score for the level, 0 (no data) through
// 5 (critical). Unknown levels score 0.
func (n NeedLevel) Score() int {
	return needScores[n]
}

// Valid reports whether n is one of the six defined levels.
func (n NeedLevel) Valid() bool {
	_, ok := needScores[n]
	return ok
}

// ParseNeedLevel converts a stored string back into a NeedLevel.
func ParseNeedLevel(s string) (NeedLevel, error) {
	n := NeedLevel(s)
	if !n.Valid() {
		return "", eris.Errorf("model: unknown need level %q", s)
	}
	return n, nil
}

// YearThresholds holds the four adaptive cut points for one year, computed
// over the bed-gap percentages of regions with a nonzero homeless count.
// They are recomputed from scratch every year and never carried over.
type YearThresholds struct {
	Year  int     `json:"year"`
	Cut20 float64 `json:"cut20"`
	Cut40 float64 `json:"cut40"`
	Cut60 float64 `json:"cut60"`
	Cut80 float64 `json:"cut80"`
}

// Cuts returns the four cut points in ascending order.
func (t YearThresholds) Cuts() [4]float64 {
	return [4]float64{t.Cut20, t.Cut40, t.Cut60, t.Cut80}
}
