package analysis

import (
	"fmt"
	"math"
	"sort"

	"gridweather/internal/model"
)

// lrdEpsilon keeps the local reachability density finite when k or more
// neighbours share the same value.
const lrdEpsilon = 1e-10

// LOFResult is the output of the density-based anomaly detector.
type LOFResult struct {
	// Scores holds the local outlier factor per sample; higher is more anomalous.
	Scores []float64
	// Anomalies flags samples whose negated factor falls below Threshold.
	Anomalies []bool
	// Threshold is the contamination percentile of the negated factors.
	Threshold float64
	Neighbors int
	Count     int
}

// AnomalyIndices lists the flagged positions in ascending order.
func (r *LOFResult) AnomalyIndices() []int {
	return maskIndices(r.Anomalies)
}

// DetectLOF scores every value by its local outlier factor among its
// nNeighbors nearest values and flags the contamination share with the
// lowest local density.
func DetectLOF(values []float64, nNeighbors int, contamination float64) (*LOFResult, error) {
	n := len(values)
	if nNeighbors < 1 {
		return nil, fmt.Errorf("n_neighbors must be >= 1, got %d", nNeighbors)
	}
	if !(contamination > 0 && contamination <= 0.5) {
		return nil, fmt.Errorf("contamination must be in (0, 0.5], got %g", contamination)
	}
	if n <= nNeighbors {
		return nil, fmt.Errorf("%d samples for %d neighbours: %w", n, nNeighbors, model.ErrInsufficientData)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("values have a missing value at index %d", i)
		}
	}

	k := nNeighbors
	if k > n-1 {
		k = n - 1
	}
	nbrs, dists := nearestNeighbors(values, k)

	kdist := make([]float64, n)
	for i := range values {
		kdist[i] = dists[i][k-1]
	}

	lrd := make([]float64, n)
	for i := range values {
		var sum float64
		for j, nb := range nbrs[i] {
			sum += math.Max(kdist[nb], dists[i][j])
		}
		lrd[i] = 1 / (sum/float64(k) + lrdEpsilon)
	}

	scores := make([]float64, n)
	negated := make([]float64, n)
	for i := range values {
		var sum float64
		for _, nb := range nbrs[i] {
			sum += lrd[nb]
		}
		scores[i] = sum / float64(k) / lrd[i]
		negated[i] = -scores[i]
	}

	threshold := percentile(negated, contamination)
	res := &LOFResult{
		Scores:    scores,
		Anomalies: make([]bool, n),
		Threshold: threshold,
		Neighbors: k,
	}
	for i, v := range negated {
		if v < threshold {
			res.Anomalies[i] = true
			res.Count++
		}
	}
	return res, nil
}

// nearestNeighbors returns, for every sample, the indices of its k nearest
// other samples and their distances in ascending order. In one dimension the
// neighbours of a value are contiguous in sorted order, so each search walks
// outward from the sample's sorted position.
func nearestNeighbors(values []float64, k int) ([][]int, [][]float64) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	nbrs := make([][]int, n)
	dists := make([][]float64, n)
	for p, idx := range order {
		x := values[idx]
		ni := make([]int, 0, k)
		nd := make([]float64, 0, k)
		l, r := p-1, p+1
		for len(ni) < k {
			var pick int
			switch {
			case l < 0:
				pick = r
				r++
			case r >= n:
				pick = l
				l--
			case x-values[order[l]] <= values[order[r]]-x:
				pick = l
				l--
			default:
				pick = r
				r++
			}
			j := order[pick]
			ni = append(ni, j)
			nd = append(nd, math.Abs(values[j]-x))
		}
		nbrs[idx] = ni
		dists[idx] = nd
	}
	return nbrs, dists
}
