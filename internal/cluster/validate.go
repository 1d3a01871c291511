package cluster

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrTooFewRegions is returned when fewer than NumClusters feature
// vectors are supplied; a 3-way split is not forced onto less data.
var ErrTooFewRegions = eris.New("cluster: need at least 3 regions to cluster")

// NumClusters is fixed: the validation grouping is always high, medium,
// and low need.
const NumClusters = 3

const maxIterations = 100

// Options tunes the clustering run. Zero values take the defaults that
// reproduce the reference grouping (seed 42, 10 restarts).
type Options struct {
	Seed     int64
	Restarts int
}

// FeatureVector is one region's clustering input: the severity score of
// its assigned need level plus two derived metrics. GapRatio is the bed
// gap as a ratio of homeless count (bed_gap_pct / 100).
type FeatureVector struct {
	RegionID        string  `json:"region_id"`
	SeverityScore   float64 `json:"severity_score"`
	UtilizationRate float64 `json:"utilization_rate"`
	GapRatio        float64 `json:"gap_ratio"`
}

// Group describes one ranked cluster.
type Group struct {
	Rank            int     `json:"rank"` // 0 = highest need
	Size            int     `json:"size"`
	MeanSeverity    float64 `json:"mean_severity"`
	MeanUtilization float64 `json:"mean_utilization"`
	MeanGapRatio    float64 `json:"mean_gap_ratio"`
}

// Result is a deterministic 3-way grouping of regions by need.
type Result struct {
	Assignments map[string]int `json:"assignments"` // region id -> rank
	Groups      []Group        `json:"groups"`      // indexed by rank
}

// Validate clusters regions into three groups over standardized features
// and relabels the clusters by mean severity score, descending, so rank
// 0 always means "highest need" regardless of the arbitrary cluster
// indices k-means starts from. The fixed seed makes repeated runs over
// identical input bit-identical.
func Validate(vectors []FeatureVector, opts Options) (*Result, error) {
	if len(vectors) < NumClusters {
		return nil, ErrTooFewRegions
	}
	if opts.Restarts <= 0 {
		opts.Restarts = 10
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	points := make([][]float64, len(vectors))
	for i, v := range vectors {
		points[i] = []float64{v.SeverityScore, v.UtilizationRate, v.GapRatio}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	assign := kmeans(standardize(points), NumClusters, opts.Restarts, maxIterations, rng)

	// Rank clusters by mean severity, descending. Empty clusters sink to
	// the bottom ranks.
	type clusterStat struct {
		id           int
		size         int
		severitySum  float64
		utilizeSum   float64
		gapSum       float64
		meanSeverity float64
	}
	stats := make([]clusterStat, NumClusters)
	for c := range stats {
		stats[c].id = c
		stats[c].meanSeverity = math.Inf(-1)
	}
	for i, v := range vectors {
		s := &stats[assign[i]]
		s.size++
		s.severitySum += v.SeverityScore
		s.utilizeSum += v.UtilizationRate
		s.gapSum += v.GapRatio
	}
	for c := range stats {
		if stats[c].size > 0 {
			stats[c].meanSeverity = stats[c].severitySum / float64(stats[c].size)
		}
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].meanSeverity > stats[j].meanSeverity })

	rankOf := make(map[int]int, NumClusters)
	groups := make([]Group, NumClusters)
	for rank, s := range stats {
		rankOf[s.id] = rank
		g := Group{Rank: rank, Size: s.size}
		if s.size > 0 {
			g.MeanSeverity = s.severitySum / float64(s.size)
			g.MeanUtilization = s.utilizeSum / float64(s.size)
			g.MeanGapRatio = s.gapSum / float64(s.size)
		}
		groups[rank] = g
	}

	assignments := make(map[string]int, len(vectors))
	for i, v := range vectors {
		assignments[v.RegionID] = rankOf[assign[i]]
	}

	zap.L().Debug("cluster: validation grouping complete",
		zap.Int("regions", len(vectors)),
		zap.Int("high_need", groups[0].Size),
		zap.Int("medium_need", groups[1].Size),
		zap.Int("low_need", groups[2].Size),
	)

	return &Result{Assignments: assignments, Groups: groups}, nil
}
