package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"gridweather/internal/model"
)

const (
	tukeyAlpha = 0.25
	// dbFloor keeps log10 finite for empty bins.
	dbFloor = 1e-12
)

// SpectrogramOptions configures the short-time power spectrum. Zero values
// take the defaults (256 sample segments, 128 overlap, 1 sample per hour).
type SpectrogramOptions struct {
	SegmentLength int
	Overlap       int
	SampleRate    float64
}

// DefaultSpectrogramOptions returns the defaults for hourly data.
func DefaultSpectrogramOptions() SpectrogramOptions {
	return SpectrogramOptions{SegmentLength: 256, Overlap: 128, SampleRate: 1}
}

// SpectrogramResult is a one-sided power spectral density per segment.
// Power and DB are indexed [frequency][segment].
type SpectrogramResult struct {
	Frequencies []float64
	// Times are segment centres in samples divided by the sample rate.
	Times []float64
	Power [][]float64
	DB    [][]float64
	// DBMin and DBMax are the 1st and 99th percentile of DB, used as the
	// display range.
	DBMin float64
	DBMax float64
}

// Spectrogram computes the power spectral density of consecutive, overlapping
// Tukey-windowed segments of values. Each segment has its mean removed.
// A segment longer than the input is shortened to the input length.
func Spectrogram(values []float64, opts SpectrogramOptions) (*SpectrogramResult, error) {
	def := DefaultSpectrogramOptions()
	if opts.SegmentLength == 0 {
		opts.SegmentLength = def.SegmentLength
		if opts.Overlap == 0 {
			opts.Overlap = def.Overlap
		}
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = def.SampleRate
	}

	n := len(values)
	if n < 2 {
		return nil, fmt.Errorf("%d samples: %w", n, model.ErrInsufficientData)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("values have a missing value at index %d", i)
		}
	}
	seg := opts.SegmentLength
	overlap := opts.Overlap
	if seg > n {
		seg = n
		if overlap >= seg {
			overlap = seg / 2
		}
	}
	if seg < 2 || overlap < 0 || overlap >= seg {
		return nil, fmt.Errorf("invalid segment length %d with overlap %d", seg, overlap)
	}
	step := seg - overlap
	segments := (n - overlap) / step

	win := tukeyWindow(seg, tukeyAlpha)
	var winSq float64
	for _, w := range win {
		winSq += w * w
	}
	scale := 1 / (opts.SampleRate * winSq)

	bins := seg/2 + 1
	res := &SpectrogramResult{
		Frequencies: make([]float64, bins),
		Times:       make([]float64, segments),
		Power:       make([][]float64, bins),
		DB:          make([][]float64, bins),
	}
	for k := range res.Frequencies {
		res.Frequencies[k] = float64(k) * opts.SampleRate / float64(seg)
		res.Power[k] = make([]float64, segments)
		res.DB[k] = make([]float64, segments)
	}

	fft := fourier.NewFFT(seg)
	buf := make([]float64, seg)
	coeffs := make([]complex128, bins)
	allDB := make([]float64, 0, bins*segments)
	for s := 0; s < segments; s++ {
		start := s * step
		chunk := values[start : start+seg]
		var mean float64
		for _, v := range chunk {
			mean += v
		}
		mean /= float64(seg)
		for i, v := range chunk {
			buf[i] = (v - mean) * win[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)

		res.Times[s] = (float64(seg)/2 + float64(start)) / opts.SampleRate
		for k, c := range coeffs {
			a := cmplx.Abs(c)
			p := a * a * scale
			if k > 0 && !(seg%2 == 0 && k == bins-1) {
				p *= 2
			}
			res.Power[k][s] = p
			res.DB[k][s] = 10 * math.Log10(p+dbFloor)
		}
	}
	for k := range res.DB {
		allDB = append(allDB, res.DB[k]...)
	}
	res.DBMin = percentile(allDB, 0.01)
	res.DBMax = percentile(allDB, 0.99)
	return res, nil
}

// tukeyWindow returns a periodic tapered-cosine window of length m.
func tukeyWindow(m int, alpha float64) []float64 {
	out := make([]float64, m)
	if alpha <= 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	// Periodic: build the symmetric window of length m+1 and drop the last sample.
	size := m + 1
	width := int(math.Floor(alpha * float64(size-1) / 2))
	for i := 0; i < m; i++ {
		x := float64(i)
		switch {
		case i <= width:
			out[i] = 0.5 * (1 + math.Cos(math.Pi*(-1+2*x/alpha/float64(size-1))))
		case i >= size-width-1:
			out[i] = 0.5 * (1 + math.Cos(math.Pi*(-2/alpha+1+2*x/alpha/float64(size-1))))
		default:
			out[i] = 1
		}
	}
	return out
}
