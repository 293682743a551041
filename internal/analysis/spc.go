package analysis

import (
	"fmt"
	"math"

	"gridweather/internal/model"
)

// ControlLimits are the robust limits derived from the high-pass residual.
type ControlLimits struct {
	Median    float64
	RobustStd float64
	Upper     float64
	Lower     float64
}

// SPCResult is the output of the robust statistical process control detector.
type SPCResult struct {
	Limits ControlLimits

	// Residual is the DCT high-pass filtered signal (satv).
	Residual []float64
	// Outliers flags samples whose residual lies outside the limits.
	Outliers []bool
	// UpperCurve and LowerCurve express the limits in the signal's units:
	// signal + (limit - residual).
	UpperCurve []float64
	LowerCurve []float64

	Count int
}

// OutlierIndices lists the flagged positions in ascending order.
func (r *SPCResult) OutlierIndices() []int {
	return maskIndices(r.Outliers)
}

// DetectSPC flags samples of signal whose high-frequency residual deviates by
// more than numStd robust standard deviations from the residual median.
//
// The signal must be evenly spaced and complete; fill gaps first.
// freqCutoff is the number of low-frequency DCT coefficients removed.
func DetectSPC(signal []float64, freqCutoff int, numStd float64) (*SPCResult, error) {
	n := len(signal)
	if freqCutoff <= 0 || freqCutoff >= n {
		return nil, fmt.Errorf("cutoff %d for %d samples: %w", freqCutoff, n, model.ErrInvalidCutoff)
	}
	for i, v := range signal {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("signal has a missing value at index %d", i)
		}
	}

	satv := HighPass(signal, freqCutoff)

	med := median(satv)
	robustStd := medianAbsDeviation(satv, med) * madScale
	limits := ControlLimits{
		Median:    med,
		RobustStd: robustStd,
		Upper:     med + numStd*robustStd,
		Lower:     med - numStd*robustStd,
	}

	res := &SPCResult{
		Limits:     limits,
		Residual:   satv,
		Outliers:   make([]bool, n),
		UpperCurve: make([]float64, n),
		LowerCurve: make([]float64, n),
	}
	for i, s := range satv {
		res.UpperCurve[i] = signal[i] + (limits.Upper - s)
		res.LowerCurve[i] = signal[i] + (limits.Lower - s)
		if s > limits.Upper || s < limits.Lower {
			res.Outliers[i] = true
			res.Count++
		}
	}
	return res, nil
}

func maskIndices(mask []bool) []int {
	var out []int
	for i, m := range mask {
		if m {
			out = append(out, i)
		}
	}
	return out
}
