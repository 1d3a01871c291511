package cluster

import "github.com/pit-analytics/shelter-cli/internal/model"

// GroupProfile is one ranked cluster's mean raw counts, for reading the
// grouping in domain terms rather than standardized feature space.
type GroupProfile struct {
	Rank            int     `json:"rank"`
	Size            int     `json:"size"`
	MeanBeds        float64 `json:"mean_beds"`
	MeanHomeless    float64 `json:"mean_homeless"`
	MeanUtilization float64 `json:"mean_utilization"`
	MeanSeverity    float64 `json:"mean_severity"`
}

// Profile joins a clustering result back onto the classified records and
// averages each group's raw counts. Records without an assignment (for
// example, filtered out before clustering) are skipped.
func Profile(result *Result, records []model.RegionYearRecord) []GroupProfile {
	profiles := make([]GroupProfile, len(result.Groups))
	for rank := range profiles {
		profiles[rank].Rank = rank
	}

	for _, rec := range records {
		rank, ok := result.Assignments[rec.RegionID]
		if !ok {
			continue
		}
		p := &profiles[rank]
		p.Size++
		p.MeanBeds += rec.TotalBeds
		p.MeanHomeless += rec.TotalHomeless
		p.MeanUtilization += rec.BedUtilizationRate
		p.MeanSeverity += float64(rec.NeedLevel.Score())
	}

	for i := range profiles {
		if profiles[i].Size == 0 {
			continue
		}
		n := float64(profiles[i].Size)
		profiles[i].MeanBeds /= n
		profiles[i].MeanHomeless /= n
		profiles[i].MeanUtilization /= n
		profiles[i].MeanSeverity /= n
	}
	return profiles
}
