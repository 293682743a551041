package analysis

import (
	"fmt"
	"math"

	"gridweather/internal/model"
)

// STLOptions configures the seasonal-trend decomposition. Zero values take
// the defaults used for hourly energy series.
type STLOptions struct {
	Period   int
	Seasonal int
	Trend    int
	// LowPass defaults to the smallest odd integer greater than Period.
	LowPass int
	Robust  bool
	// InnerIter and OuterIter override the iteration counts when > 0.
	InnerIter int
	OuterIter int
}

// DefaultSTLOptions returns the defaults for hourly data with a daily cycle.
func DefaultSTLOptions() STLOptions {
	return STLOptions{Period: 24, Seasonal: 7, Trend: 169, Robust: true}
}

// STLResult holds the additive components; Observed = Trend + Seasonal + Residual.
type STLResult struct {
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Residual []float64
	// Weights are the final robustness weights (all 1 when not robust).
	Weights []float64
}

func (o STLOptions) normalized() STLOptions {
	def := DefaultSTLOptions()
	if o.Period == 0 {
		o.Period = def.Period
	}
	if o.Seasonal == 0 {
		o.Seasonal = def.Seasonal
	}
	if o.Trend == 0 {
		o.Trend = def.Trend
	}
	if o.LowPass == 0 {
		o.LowPass = o.Period + 1
	}
	o.Seasonal = nextOdd(maxInt(3, o.Seasonal))
	o.Trend = nextOdd(maxInt(3, o.Trend))
	o.LowPass = nextOdd(maxInt(3, o.LowPass))
	if o.InnerIter <= 0 {
		o.InnerIter = 5
		if o.Robust {
			o.InnerIter = 2
		}
	}
	if o.OuterIter <= 0 {
		o.OuterIter = 0
		if o.Robust {
			o.OuterIter = 15
		}
	}
	return o
}

// STL decomposes values into trend, seasonal and residual components using
// LOESS smoothing of the cycle-subseries (Cleveland et al., 1990).
// values must be complete and span at least two periods.
func STL(values []float64, opts STLOptions) (*STLResult, error) {
	o := opts.normalized()
	n := len(values)
	if o.Period < 2 {
		return nil, fmt.Errorf("period must be >= 2, got %d", o.Period)
	}
	if n < 2*o.Period {
		return nil, fmt.Errorf("%d samples for period %d: %w", n, o.Period, model.ErrInsufficientData)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("values have a missing value at index %d", i)
		}
	}

	d := newSTLDecomposer(values, o)
	d.fit()

	res := &STLResult{
		Observed: append([]float64(nil), values...),
		Trend:    d.trend,
		Seasonal: d.season,
		Residual: make([]float64, n),
		Weights:  d.rw,
	}
	for i := range values {
		res.Residual[i] = values[i] - d.trend[i] - d.season[i]
	}
	return res, nil
}

type stlDecomposer struct {
	y    []float64
	opts STLOptions

	trend  []float64
	season []float64
	rw     []float64
	userw  bool
}

func newSTLDecomposer(y []float64, o STLOptions) *stlDecomposer {
	n := len(y)
	rw := make([]float64, n)
	for i := range rw {
		rw[i] = 1
	}
	return &stlDecomposer{
		y:      y,
		opts:   o,
		trend:  make([]float64, n),
		season: make([]float64, n),
		rw:     rw,
	}
}

func (d *stlDecomposer) fit() {
	n := len(d.y)
	fitted := make([]float64, n)
	for k := 0; ; k++ {
		d.innerLoop()
		if k >= d.opts.OuterIter {
			break
		}
		for i := range fitted {
			fitted[i] = d.trend[i] + d.season[i]
		}
		robustnessWeights(d.y, fitted, d.rw)
		d.userw = true
	}
	if d.opts.OuterIter <= 0 {
		for i := range d.rw {
			d.rw[i] = 1
		}
	}
}

func (d *stlDecomposer) innerLoop() {
	n := len(d.y)
	np := d.opts.Period
	detrended := make([]float64, n)
	deseason := make([]float64, n)
	for iter := 0; iter < d.opts.InnerIter; iter++ {
		for i := range detrended {
			detrended[i] = d.y[i] - d.trend[i]
		}
		cycle := d.cycleSubseries(detrended)
		low := lowPass(cycle, np)
		low = loessSmooth(low, d.opts.LowPass, false, nil)
		for i := 0; i < n; i++ {
			d.season[i] = cycle[np+i] - low[i]
			deseason[i] = d.y[i] - d.season[i]
		}
		d.trend = loessSmooth(deseason, d.opts.Trend, d.userw, d.rw)
	}
}

// cycleSubseries smooths each cycle-subseries and extends it one period at
// both ends, returning len(x)+2*period values.
func (d *stlDecomposer) cycleSubseries(x []float64) []float64 {
	n := len(x)
	np := d.opts.Period
	ns := d.opts.Seasonal
	out := make([]float64, n+2*np)

	sub := make([]float64, 0, n/np+1)
	subw := make([]float64, 0, n/np+1)
	for j := 0; j < np; j++ {
		sub = sub[:0]
		subw = subw[:0]
		for i := j; i < n; i += np {
			sub = append(sub, x[i])
			subw = append(subw, d.rw[i])
		}
		k := len(sub)
		smoothed := loessSmooth(sub, ns, d.userw, subw)

		w := make([]float64, k)
		first, ok := loessEstimate(sub, ns, -1, 0, minInt(ns, k)-1, w, d.userw, subw)
		if !ok {
			first = smoothed[0]
		}
		last, ok := loessEstimate(sub, ns, float64(k), maxInt(0, k-ns), k-1, w, d.userw, subw)
		if !ok {
			last = smoothed[k-1]
		}

		out[j] = first
		for m, v := range smoothed {
			out[(m+1)*np+j] = v
		}
		out[(k+1)*np+j] = last
	}
	return out
}

// lowPass applies moving averages of length period, period and 3 in turn,
// shortening the input by 2*period.
func lowPass(x []float64, period int) []float64 {
	return movingAverage(movingAverage(movingAverage(x, period), period), 3)
}

func movingAverage(x []float64, length int) []float64 {
	n := len(x) - length + 1
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	var sum float64
	for _, v := range x[:length] {
		sum += v
	}
	out[0] = sum / float64(length)
	for j := 1; j < n; j++ {
		sum += x[j+length-1] - x[j-1]
		out[j] = sum / float64(length)
	}
	return out
}

// loessSmooth evaluates a locally linear LOESS fit of span length at every
// position of y.
func loessSmooth(y []float64, length int, userw bool, rw []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		copy(out, y)
		return out
	}
	w := make([]float64, n)
	if length >= n {
		for i := 0; i < n; i++ {
			v, ok := loessEstimate(y, length, float64(i), 0, n-1, w, userw, rw)
			if !ok {
				v = y[i]
			}
			out[i] = v
		}
		return out
	}
	half := (length + 1) / 2
	left, right := 0, length-1
	for i := 0; i < n; i++ {
		if i+1 > half && right != n-1 {
			left++
			right++
		}
		v, ok := loessEstimate(y, length, float64(i), left, right, w, userw, rw)
		if !ok {
			v = y[i]
		}
		out[i] = v
	}
	return out
}

// loessEstimate fits a tricube weighted line to y[left..right] and evaluates
// it at xs. It reports false when every weight vanishes.
func loessEstimate(y []float64, length int, xs float64, left, right int, w []float64, userw bool, rw []float64) (float64, bool) {
	n := len(y)
	span := float64(n - 1)
	h := math.Max(xs-float64(left), float64(right)-xs)
	if length > n {
		h += float64((length - n) / 2)
	}
	h9 := 0.999 * h
	h1 := 0.001 * h

	var a float64
	for j := left; j <= right; j++ {
		w[j] = 0
		r := math.Abs(float64(j) - xs)
		if r > h9 {
			continue
		}
		if r <= h1 {
			w[j] = 1
		} else {
			q := r / h
			q = 1 - q*q*q
			w[j] = q * q * q
		}
		if userw {
			w[j] *= rw[j]
		}
		a += w[j]
	}
	if a <= 0 {
		return 0, false
	}
	for j := left; j <= right; j++ {
		w[j] /= a
	}
	if h > 0 {
		a = 0
		for j := left; j <= right; j++ {
			a += w[j] * float64(j)
		}
		b := xs - a
		var c float64
		for j := left; j <= right; j++ {
			dj := float64(j) - a
			c += w[j] * dj * dj
		}
		if math.Sqrt(c) > 0.001*span {
			b /= c
			for j := left; j <= right; j++ {
				w[j] *= b*(float64(j)-a) + 1
			}
		}
	}
	var ys float64
	for j := left; j <= right; j++ {
		ys += w[j] * y[j]
	}
	return ys, true
}

// robustnessWeights sets bisquare weights from the residuals y - fit,
// scaled by six times their median absolute value.
func robustnessWeights(y, fit, rw []float64) {
	r := make([]float64, len(y))
	for i := range y {
		r[i] = math.Abs(y[i] - fit[i])
	}
	cmad := 6 * median(r)
	c9 := 0.999 * cmad
	c1 := 0.001 * cmad
	for i, ri := range r {
		switch {
		case ri <= c1:
			rw[i] = 1
		case ri <= c9:
			u := ri / cmad
			u = 1 - u*u
			rw[i] = u * u
		default:
			rw[i] = 0
		}
	}
}

func nextOdd(v int) int {
	if v%2 == 0 {
		return v + 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
