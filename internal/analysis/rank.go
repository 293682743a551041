package analysis

import (
	"math"
	"sort"
)

// LagScore is the highlighted-window correlation obtained at one lag.
type LagScore struct {
	Lag         int
	Correlation float64
	Pairs       int
}

// ScanLags evaluates the window correlation of m for every lag and sorts the
// results by descending |r|. Lags with an undefined correlation sort last,
// ties keep ascending lag order.
func ScanLags(m *MergedSeries, lags []int, w Window) []LagScore {
	n := m.Len()
	lo, hi := w.Bounds(n)
	bx := make([]float64, 0, hi-lo)
	by := make([]float64, 0, hi-lo)

	out := make([]LagScore, 0, len(lags))
	for _, lag := range lags {
		lagged := Shift(m.Secondary, lag)
		pairs := 0
		for i := lo; i < hi; i++ {
			if !math.IsNaN(m.Primary[i]) && !math.IsNaN(lagged[i]) {
				pairs++
			}
		}
		out = append(out, LagScore{
			Lag:         lag,
			Correlation: pairwisePearson(m.Primary, lagged, lo, hi, bx, by),
			Pairs:       pairs,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Correlation, out[j].Correlation
		if math.IsNaN(a) != math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.Abs(a) != math.Abs(b) {
			return math.Abs(a) > math.Abs(b)
		}
		return out[i].Lag < out[j].Lag
	})
	return out
}

// LagRange returns every integer lag in [from, to] stepping by step.
func LagRange(from, to, step int) []int {
	if step <= 0 {
		step = 1
	}
	if to < from {
		from, to = to, from
	}
	out := make([]int, 0, (to-from)/step+1)
	for l := from; l <= to; l += step {
		out = append(out, l)
	}
	return out
}
