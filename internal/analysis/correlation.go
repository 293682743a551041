package analysis

import (
	"errors"
	"fmt"
	"math"

	"gridweather/internal/model"
)

// Window is the highlighted sub-window of a merged series: Size samples
// centred at index Center, i.e. [Center-Size/2, Center+Size/2).
type Window struct {
	Size   int
	Center int
}

// Bounds returns the window clipped to [0, n).
func (w Window) Bounds(n int) (lo, hi int) {
	return clip(w.Center-w.Size/2, w.Center+w.Size/2, n)
}

// IndexRange is a half-open range of row indices.
type IndexRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CorrelationResult is the output of the lag/window correlation engine.
type CorrelationResult struct {
	Lag    int
	Window Window

	// SecondaryLagged is Secondary shifted by Lag; NaN where undefined.
	SecondaryLagged []float64
	// Rolling holds one centred rolling Pearson correlation per row.
	Rolling []float64
	// WindowCorrelation is the correlation restricted to the highlighted window.
	WindowCorrelation float64
	// OverallCorrelation is the correlation over every valid pair of the series.
	OverallCorrelation float64

	// PrimaryRange is the highlighted window on the primary series; SecondaryRange
	// is the same window on the unshifted secondary series (offset by Lag).
	PrimaryRange   IndexRange
	SecondaryRange IndexRange
}

// Shift delays values by lag samples: out[i] = values[i-lag]. Positions that
// fall outside the input become NaN. A negative lag advances the series.
func Shift(values []float64, lag int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		j := i - lag
		if j < 0 || j >= n {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[j]
	}
	return out
}

// RollingCorrelation computes a centred rolling Pearson correlation of x and y
// with the given window length. The window at i covers [i-size/2, i-size/2+size).
// Windows truncated by either end of the series are NaN; inside a full window
// rows with a missing value are skipped and at least two complete pairs are required.
func RollingCorrelation(x, y []float64, size int) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	out := make([]float64, n)
	bx := make([]float64, 0, size)
	by := make([]float64, 0, size)
	for i := 0; i < n; i++ {
		lo := i - size/2
		hi := lo + size
		if size < 1 || lo < 0 || hi > n {
			out[i] = math.NaN()
			continue
		}
		out[i] = pairwisePearson(x, y, lo, hi, bx, by)
	}
	return out
}

// Correlate shifts the secondary series of m by lag, then computes the rolling
// correlation, the highlighted-window correlation and the overall correlation.
// It is a pure function of its inputs.
func Correlate(m *MergedSeries, lag int, w Window) (*CorrelationResult, error) {
	n := m.Len()
	if n == 0 {
		return nil, fmt.Errorf("correlate: %w", model.ErrEmptyIntersection)
	}
	if w.Size < 2 {
		return nil, errors.New("correlate: window size must be >= 2")
	}
	lagged := Shift(m.Secondary, lag)

	res := &CorrelationResult{
		Lag:             lag,
		Window:          w,
		SecondaryLagged: lagged,
		Rolling:         RollingCorrelation(m.Primary, lagged, w.Size),
	}

	bx := make([]float64, 0, n)
	by := make([]float64, 0, n)

	lo, hi := w.Bounds(n)
	res.PrimaryRange = IndexRange{Start: lo, End: hi}
	res.WindowCorrelation = pairwisePearson(m.Primary, lagged, lo, hi, bx, by)
	res.OverallCorrelation = pairwisePearson(m.Primary, lagged, 0, n, bx, by)

	slo, shi := clip(w.Center-w.Size/2-lag, w.Center+w.Size/2-lag, n)
	res.SecondaryRange = IndexRange{Start: slo, End: shi}
	return res, nil
}

func clip(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
