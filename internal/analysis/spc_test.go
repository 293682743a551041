package analysis

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gridweather/internal/model"
)

// lcgNoise returns deterministic uniform noise in [-amp, amp).
func lcgNoise(n int, seed uint64, amp float64) []float64 {
	out := make([]float64, n)
	s := seed
	for i := range out {
		s = (s*1103515245 + 12345) % (1 << 31)
		out[i] = 2*amp*float64(s)/float64(1<<31) - amp
	}
	return out
}

func spikeSignal() []float64 {
	noise := lcgNoise(200, 42, 3)
	sig := make([]float64, 200)
	for i := range sig {
		sig[i] = 50 + 0.05*float64(i) + noise[i]
	}
	sig[50] += 100
	return sig
}

func TestDetectSPCFlagsSpike(t *testing.T) {
	res, err := DetectSPC(spikeSignal(), 5, 3)
	if err != nil {
		t.Fatalf("DetectSPC: %v", err)
	}
	idx := res.OutlierIndices()
	if len(idx) != 1 || idx[0] != 50 {
		t.Fatalf("outliers = %v, want [50]", idx)
	}
	if res.Count != 1 {
		t.Errorf("count = %d, want 1", res.Count)
	}
	if res.Limits.Upper <= res.Limits.Median || res.Limits.Lower >= res.Limits.Median {
		t.Errorf("limits not ordered around the median: %+v", res.Limits)
	}
}

func TestDetectSPCCurves(t *testing.T) {
	sig := spikeSignal()
	res, err := DetectSPC(sig, 5, 3)
	if err != nil {
		t.Fatalf("DetectSPC: %v", err)
	}
	for i := range sig {
		if res.UpperCurve[i] < res.LowerCurve[i] {
			t.Fatalf("index %d: upper curve below lower curve", i)
		}
		// A point is an outlier exactly when the signal leaves the band.
		outside := sig[i] > res.UpperCurve[i]+1e-9 || sig[i] < res.LowerCurve[i]-1e-9
		if outside != res.Outliers[i] {
			t.Errorf("index %d: outside band = %v, flagged = %v", i, outside, res.Outliers[i])
		}
	}
}

func TestDetectSPCGaussianRate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sig := make([]float64, 10000)
	for i := range sig {
		sig[i] = rng.NormFloat64()
	}
	res, err := DetectSPC(sig, 10, 3)
	if err != nil {
		t.Fatalf("DetectSPC: %v", err)
	}
	// About 0.27% of Gaussian samples lie beyond 3 sigma.
	if res.Count < 10 || res.Count > 50 {
		t.Errorf("count = %d, want roughly 27", res.Count)
	}
	if math.Abs(res.Limits.RobustStd-1) > 0.1 {
		t.Errorf("robust std = %f, want about 1", res.Limits.RobustStd)
	}
}

func TestDetectSPCInvalidCutoff(t *testing.T) {
	sig := make([]float64, 20)
	for _, cutoff := range []int{0, -3, 20, 25} {
		if _, err := DetectSPC(sig, cutoff, 3); !errors.Is(err, model.ErrInvalidCutoff) {
			t.Errorf("cutoff %d: err = %v, want ErrInvalidCutoff", cutoff, err)
		}
	}
}

func TestDetectSPCRejectsMissing(t *testing.T) {
	sig := []float64{1, 2, math.NaN(), 4, 5}
	if _, err := DetectSPC(sig, 1, 3); err == nil {
		t.Fatal("expected an error for a missing value")
	}
}
