package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// madScale makes the median absolute deviation a consistent estimator of the
// standard deviation for Gaussian data.
const madScale = 1.4826

// median returns the middle order statistic, averaging the two middle values
// for even lengths. The input is not modified.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// medianAbsDeviation returns median(|x - center|).
func medianAbsDeviation(xs []float64, center float64) float64 {
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = math.Abs(x - center)
	}
	return median(dev)
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// percentile sorts a copy of xs and interpolates the q-quantile (0..1).
func percentile(xs []float64, q float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return percentileSorted(sorted, q)
}

// pairwisePearson correlates x[lo:hi] with y[lo:hi] using only positions
// where both values are present. Fewer than two pairs or a constant side
// yields NaN.
func pairwisePearson(x, y []float64, lo, hi int, bx, by []float64) float64 {
	bx = bx[:0]
	by = by[:0]
	for i := lo; i < hi; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		bx = append(bx, x[i])
		by = append(by, y[i])
	}
	if len(bx) < 2 {
		return math.NaN()
	}
	if constant(bx) || constant(by) {
		return math.NaN()
	}
	return stat.Correlation(bx, by, nil)
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
