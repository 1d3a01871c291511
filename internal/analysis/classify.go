package analysis

import (
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// ClassifyNeed assigns one need level to a record given its year's
// thresholds. Regions with no homeless counted are NO_DATA; everything
// else falls through the cut-point ladder. The <= comparisons mean ties
// at a boundary resolve to the less severe level, and they keep the
// ladder total even when degenerate data makes cut points equal.
func ClassifyNeed(rec model.RegionYearRecord, thr model.YearThresholds) model.NeedLevel {
	if rec.TotalHomeless == 0 {
		return model.NeedNoData
	}
	switch {
	case rec.BedGapPct <= thr.Cut20:
		return model.NeedExcellent
	case rec.BedGapPct <= thr.Cut40:
		return model.NeedGood
	case rec.BedGapPct <= thr.Cut60:
		return model.NeedModerate
	case rec.BedGapPct <= thr.Cut80:
		return model.NeedHigh
	default:
		return model.NeedCritical
	}
}

// ClassifiedSnapshot is one year's records with metrics derived and need
// levels assigned. Thresholds is nil when no region had a homeless
// population (every record is then NO_DATA).
type ClassifiedSnapshot struct {
	Year       int                      `json:"year"`
	Thresholds *model.YearThresholds    `json:"thresholds,omitempty"`
	Records    []model.RegionYearRecord `json:"records"`
}

// ClassifySnapshot runs the primary path for one year: derive metrics,
// compute that year's thresholds, and assign a need level to every
// record. The input slice is not modified.
func ClassifySnapshot(records []model.RegionYearRecord) ClassifiedSnapshot {
	derived := DeriveMetrics(records)

	snap := ClassifiedSnapshot{Records: derived}
	if len(derived) > 0 {
		snap.Year = derived[0].Year
	}

	thr, err := ComputeYearThresholds(derived)
	if err != nil {
		// Nothing to threshold against: every record is NO_DATA.
		for i := range snap.Records {
			snap.Records[i].NeedLevel = model.NeedNoData
		}
		zap.L().Debug("analysis: snapshot has no homeless population", zap.Int("year", snap.Year))
		return snap
	}
	snap.Thresholds = &thr

	counts := make(map[model.NeedLevel]int, 6)
	for i := range snap.Records {
		snap.Records[i].NeedLevel = ClassifyNeed(snap.Records[i], thr)
		counts[snap.Records[i].NeedLevel]++
	}

	zap.L().Info("analysis: snapshot classified",
		zap.Int("year", snap.Year),
		zap.Int("regions", len(snap.Records)),
		zap.Int("critical", counts[model.NeedCritical]),
		zap.Int("high", counts[model.NeedHigh]),
		zap.Int("no_data", counts[model.NeedNoData]),
	)
	return snap
}
