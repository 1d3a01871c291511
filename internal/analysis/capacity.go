package analysis

import (
	"sort"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// matchQuality judges each capacity/population combination. Zero-capacity
// regions with any homeless population are always critical; zero-homeless
// regions carry no signal regardless of capacity.
var matchQuality = map[model.CapacityClass]map[model.PopulationClass]model.MatchQuality{
	model.CapacityNone: {
		model.PopulationNone:   model.MatchNoData,
		model.PopulationLow:    model.MatchCriticalNeed,
		model.PopulationMedium: model.MatchCriticalNeed,
		model.PopulationHigh:   model.MatchCriticalNeed,
	},
	model.CapacityLow: {
		model.PopulationNone:   model.MatchNoData,
		model.PopulationLow:    model.MatchMediumNeed,
		model.PopulationMedium: model.MatchHighNeed,
		model.PopulationHigh:   model.MatchHighNeed,
	},
	model.CapacityMedium: {
		model.PopulationNone:   model.MatchNoData,
		model.PopulationLow:    model.MatchGood,
		model.PopulationMedium: model.MatchMediumNeed,
		model.PopulationHigh:   model.MatchHighNeed,
	},
	model.CapacityHigh: {
		model.PopulationNone:   model.MatchNoData,
		model.PopulationLow:    model.MatchOversupply,
		model.PopulationMedium: model.MatchGood,
		model.PopulationHigh:   model.MatchMediumNeed,
	},
}

// ClassifyCapacity buckets each region's bed capacity and homeless count
// against that year's own quartiles (bottom 25%, interquartile, top 25%)
// and attaches the fixed match-quality judgment for the combination.
// Zero values get their own B0/H0 buckets before any quartile applies.
func ClassifyCapacity(records []model.RegionYearRecord) []model.CapacityClassification {
	if len(records) == 0 {
		return nil
	}

	beds := make([]float64, len(records))
	homeless := make([]float64, len(records))
	for i, rec := range records {
		beds[i] = rec.TotalBeds
		homeless[i] = rec.TotalHomeless
	}
	sort.Float64s(beds)
	sort.Float64s(homeless)

	bedsQ1, bedsQ3 := quantile(beds, 0.25), quantile(beds, 0.75)
	homelessQ1, homelessQ3 := quantile(homeless, 0.25), quantile(homeless, 0.75)

	out := make([]model.CapacityClassification, len(records))
	for i, rec := range records {
		var capacity model.CapacityClass
		switch {
		case rec.TotalBeds == 0:
			capacity = model.CapacityNone
		case rec.TotalBeds <= bedsQ1:
			capacity = model.CapacityLow
		case rec.TotalBeds <= bedsQ3:
			capacity = model.CapacityMedium
		default:
			capacity = model.CapacityHigh
		}

		var population model.PopulationClass
		switch {
		case rec.TotalHomeless == 0:
			population = model.PopulationNone
		case rec.TotalHomeless <= homelessQ1:
			population = model.PopulationLow
		case rec.TotalHomeless <= homelessQ3:
			population = model.PopulationMedium
		default:
			population = model.PopulationHigh
		}

		out[i] = model.CapacityClassification{
			RegionID:   rec.RegionID,
			Year:       rec.Year,
			Capacity:   capacity,
			Population: population,
			Quality:    matchQuality[capacity][population],
		}
	}
	return out
}

// StateBedCapacity holds one state's bed totals by facility type for a
// year, alongside its homeless total.
type StateBedCapacity struct {
	State         string  `json:"state"`
	BedsES        float64 `json:"beds_es"`
	BedsTH        float64 `json:"beds_th"`
	BedsSH        float64 `json:"beds_sh"`
	TotalBeds     float64 `json:"total_beds"`
	TotalHomeless float64 `json:"total_homeless"`
}

// RollupStateBeds aggregates bed capacity per state, sorted by total
// beds descending (ties broken by state code for stable output).
func RollupStateBeds(records []model.RegionYearRecord) []StateBedCapacity {
	byState := make(map[string]*StateBedCapacity)
	for _, rec := range records {
		s, ok := byState[rec.State]
		if !ok {
			s = &StateBedCapacity{State: rec.State}
			byState[rec.State] = s
		}
		s.BedsES += rec.BedsES
		s.BedsTH += rec.BedsTH
		s.BedsSH += rec.BedsSH
		s.TotalBeds += rec.TotalBeds
		s.TotalHomeless += rec.TotalHomeless
	}

	out := make([]StateBedCapacity, 0, len(byState))
	for _, s := range byState {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBeds != out[j].TotalBeds {
			return out[i].TotalBeds > out[j].TotalBeds
		}
		return out[i].State < out[j].State
	})
	return out
}
