// Package cluster implements the independent k-means grouping used to
// cross-check the threshold-based need classification. Clustering runs
// with a fixed seed and a deterministic post-hoc ranking, so identical
// inputs always produce identical cluster labels.
package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// standardize scales each column of points to zero mean and unit
// variance so no single feature dominates the distance metric. Columns
// with zero variance collapse to all zeros instead of dividing by zero.
func standardize(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	dims := len(points[0])

	col := make([]float64, len(points))
	means := make([]float64, dims)
	stds := make([]float64, dims)
	for d := 0; d < dims; d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		means[d], stds[d] = stat.MeanStdDev(col, nil)
	}

	out := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, dims)
		for d := 0; d < dims; d++ {
			if stds[d] > 0 && !math.IsNaN(stds[d]) {
				row[d] = (p[d] - means[d]) / stds[d]
			}
		}
		out[i] = row
	}
	return out
}

// kmeans runs Lloyd's algorithm with restarts and returns the assignment
// with the lowest total within-cluster squared distance. All randomness
// comes from rng, so a seeded source makes the result reproducible.
func kmeans(points [][]float64, k, restarts, maxIter int, rng *rand.Rand) []int {
	best := make([]int, len(points))
	bestInertia := math.Inf(1)

	for r := 0; r < restarts; r++ {
		assign, inertia := kmeansOnce(points, k, maxIter, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			copy(best, assign)
		}
	}
	return best
}

func kmeansOnce(points [][]float64, k, maxIter int, rng *rand.Rand) ([]int, float64) {
	dims := len(points[0])

	// Initial centroids: k distinct points sampled without replacement.
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	assign := make([]int, len(points))
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous
		// position rather than collapsing to the origin.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			counts[assign[i]]++
			floats.Add(sums[assign[i]], p)
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	var inertia float64
	for i, p := range points {
		d := floats.Distance(p, centroids[assign[i]], 2)
		inertia += d * d
	}
	return assign, inertia
}

func nearest(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
