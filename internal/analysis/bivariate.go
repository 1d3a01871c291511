package analysis

import (
	"sort"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// ClassifyBivariate cross-classifies a region's simultaneous bed-capacity
// and unsheltered-population change. The two axes are independent; the
// composite label is just their concatenation.
func ClassifyBivariate(bedsPct, unshelteredPct float64) model.BivariateClass {
	var beds model.BedsChangeClass
	switch {
	case bedsPct < 0:
		beds = model.BedsDecrease
	case bedsPct < 50:
		beds = model.BedsLowGrowth
	default:
		beds = model.BedsHighGrowth
	}

	var unsheltered model.UnshelteredChangeClass
	switch {
	case unshelteredPct > 0:
		unsheltered = model.UnshelteredIncrease
	case unshelteredPct > -50:
		unsheltered = model.UnshelteredSlightDec
	default:
		unsheltered = model.UnshelteredSignifDec
	}

	return model.BivariateClass{Beds: beds, Unsheltered: unsheltered}
}

// BivariateChanges joins two consecutive years' records by region and
// classifies each region's change in total beds and unsheltered count.
// Regions present in only one of the two years are excluded; that is the
// defined join rule, not an error. Results are ordered by region id.
func BivariateChanges(prior, current []model.RegionYearRecord, capPct float64) []model.BivariateChange {
	prevByID := make(map[string]model.RegionYearRecord, len(prior))
	for _, rec := range prior {
		prevByID[rec.RegionID] = rec
	}

	var changes []model.BivariateChange
	for _, cur := range current {
		prev, ok := prevByID[cur.RegionID]
		if !ok {
			continue
		}
		bedsPct, _ := YoYChange(cur.TotalBeds, prev.TotalBeds, false, capPct)
		unshelPct, _ := YoYChange(cur.UnshelteredHomeless, prev.UnshelteredHomeless, false, capPct)

		changes = append(changes, model.BivariateChange{
			RegionID:       cur.RegionID,
			Name:           cur.Name,
			State:          cur.State,
			Year:           cur.Year,
			BedsPct:        bedsPct,
			UnshelteredPct: unshelPct,
			Class:          ClassifyBivariate(bedsPct, unshelPct),
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].RegionID < changes[j].RegionID })
	return changes
}
