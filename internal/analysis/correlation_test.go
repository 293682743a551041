package analysis

import (
	"errors"
	"math"
	"testing"

	"gridweather/internal/model"
)

func merged(primary, secondary []float64) *MergedSeries {
	m := &MergedSeries{Primary: primary, Secondary: secondary}
	m.Times = hourly("", t0, primary...).Times()
	return m
}

func TestShift(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	tests := []struct {
		lag  int
		want []float64
	}{
		{0, []float64{1, 2, 3, 4}},
		{1, []float64{math.NaN(), 1, 2, 3}},
		{-2, []float64{3, 4, math.NaN(), math.NaN()}},
		{10, []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}},
	}
	for _, tt := range tests {
		got := Shift(in, tt.lag)
		for i := range tt.want {
			if math.IsNaN(tt.want[i]) != math.IsNaN(got[i]) || (!math.IsNaN(got[i]) && got[i] != tt.want[i]) {
				t.Errorf("lag %d: got %v, want %v", tt.lag, got, tt.want)
				break
			}
		}
	}
}

func TestCorrelatePerfectNegative(t *testing.T) {
	n := 100
	p := make([]float64, n)
	s := make([]float64, n)
	for i := range p {
		p[i] = float64(i)
		s[i] = -2*float64(i) + 7
	}
	res, err := Correlate(merged(p, s), 0, Window{Size: 24, Center: 50})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if math.Abs(res.WindowCorrelation+1) > 1e-9 {
		t.Errorf("window correlation = %f, want -1", res.WindowCorrelation)
	}
	if math.Abs(res.OverallCorrelation+1) > 1e-9 {
		t.Errorf("overall correlation = %f, want -1", res.OverallCorrelation)
	}
	for i := 12; i < n-12; i++ {
		if math.Abs(res.Rolling[i]+1) > 1e-9 {
			t.Fatalf("rolling[%d] = %f, want -1", i, res.Rolling[i])
		}
	}
	if !math.IsNaN(res.Rolling[0]) || !math.IsNaN(res.Rolling[n-1]) {
		t.Errorf("edge windows should be undefined: %f %f", res.Rolling[0], res.Rolling[n-1])
	}
	if res.PrimaryRange != (IndexRange{Start: 38, End: 62}) {
		t.Errorf("primary range = %+v", res.PrimaryRange)
	}
}

func TestCorrelateRecoversLag(t *testing.T) {
	n := 200
	base := make([]float64, n+10)
	for i := range base {
		base[i] = math.Sin(float64(i)/5) + 0.3*math.Cos(float64(i)/2.3)
	}
	p := base[:n]
	// The secondary leads the primary by 6 samples.
	s := base[6 : n+6]

	res, err := Correlate(merged(p, s), 6, Window{Size: 48, Center: 100})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if math.Abs(res.WindowCorrelation-1) > 1e-9 {
		t.Errorf("correlation at lag 6 = %f, want 1", res.WindowCorrelation)
	}
	if res.SecondaryRange != (IndexRange{Start: 70, End: 118}) {
		t.Errorf("secondary range = %+v", res.SecondaryRange)
	}
}

func TestCorrelateSelfAtZeroLag(t *testing.T) {
	x := []float64{1, 5, 2, 8, 3, 9, 4, 7, 6, 0, 2, 4}
	res, err := Correlate(merged(x, x), 0, Window{Size: 6, Center: 6})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if math.Abs(res.WindowCorrelation-1) > 1e-12 {
		t.Errorf("self correlation = %f", res.WindowCorrelation)
	}
}

func TestCorrelateIsDeterministic(t *testing.T) {
	x := []float64{1, 5, 2, 8, 3, 9, 4, 7, 6, 0, 2, 4}
	y := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8}
	m := merged(x, y)
	a, err := Correlate(m, 2, Window{Size: 4, Center: 5})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	b, _ := Correlate(m, 2, Window{Size: 4, Center: 5})
	for i := range a.Rolling {
		if !(a.Rolling[i] == b.Rolling[i] || (math.IsNaN(a.Rolling[i]) && math.IsNaN(b.Rolling[i]))) {
			t.Fatalf("rolling[%d] differs: %f vs %f", i, a.Rolling[i], b.Rolling[i])
		}
	}
	if y[0] != 3 {
		t.Error("input was modified")
	}
}

func TestCorrelateLagBeyondSeries(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	res, err := Correlate(merged(x, x), 50, Window{Size: 2, Center: 3})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if !math.IsNaN(res.WindowCorrelation) || !math.IsNaN(res.OverallCorrelation) {
		t.Errorf("correlations should be undefined: %f %f", res.WindowCorrelation, res.OverallCorrelation)
	}
	for i, r := range res.Rolling {
		if !math.IsNaN(r) {
			t.Errorf("rolling[%d] = %f, want NaN", i, r)
		}
	}
}

func TestCorrelateSkipsMissingPairs(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 4, 5, 6}
	y := []float64{2, 4, 6, math.NaN(), 10, 12}
	res, err := Correlate(merged(x, y), 0, Window{Size: 6, Center: 3})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if math.Abs(res.WindowCorrelation-1) > 1e-12 {
		t.Errorf("window correlation = %f, want 1", res.WindowCorrelation)
	}
}

func TestCorrelateErrors(t *testing.T) {
	if _, err := Correlate(&MergedSeries{}, 0, Window{Size: 24}); !errors.Is(err, model.ErrEmptyIntersection) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := Correlate(merged([]float64{1, 2}, []float64{1, 2}), 0, Window{Size: 1}); err == nil {
		t.Error("window size 1 accepted")
	}
}

func TestScanLagsRanksTrueLagFirst(t *testing.T) {
	n := 300
	base := make([]float64, n+20)
	for i := range base {
		base[i] = math.Sin(float64(i)/7) + 0.5*math.Sin(float64(i)/3.1)
	}
	m := merged(base[:n], base[12:n+12])
	scores := ScanLags(m, LagRange(-20, 20, 1), Window{Size: 96, Center: 150})
	if len(scores) != 41 {
		t.Fatalf("len = %d, want 41", len(scores))
	}
	if scores[0].Lag != 12 {
		t.Errorf("best lag = %d (r=%f), want 12", scores[0].Lag, scores[0].Correlation)
	}
	if scores[0].Pairs != 96 {
		t.Errorf("pairs = %d, want 96", scores[0].Pairs)
	}
}

func TestLagRange(t *testing.T) {
	got := LagRange(6, -6, 6)
	want := []int{-6, 0, 6}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) != math.IsNaN(b[i]) || (!math.IsNaN(a[i]) && a[i] != b[i]) {
			return false
		}
	}
	return true
}

func TestCorrelateLagMatchesPreShiftedSecondary(t *testing.T) {
	n := 200
	p := make([]float64, n)
	s := make([]float64, n)
	for i := range p {
		p[i] = math.Sin(2*math.Pi*float64(i)/24) + 0.01*float64(i%5)
		s[i] = math.Cos(2*math.Pi*float64(i)/24) + 0.02*float64(i%3)
	}
	s[40] = math.NaN()
	w := Window{Size: 48, Center: 100}

	for _, lag := range []int{-7, 0, 3, 12, 150} {
		direct, err := Correlate(merged(p, s), lag, w)
		if err != nil {
			t.Fatalf("lag %d: %v", lag, err)
		}
		shifted, err := Correlate(merged(p, Shift(s, lag)), 0, w)
		if err != nil {
			t.Fatalf("lag %d pre-shifted: %v", lag, err)
		}
		if !sameFloats(direct.Rolling, shifted.Rolling) {
			t.Errorf("lag %d: rolling correlations differ", lag)
		}
		if !sameFloats([]float64{direct.WindowCorrelation, direct.OverallCorrelation},
			[]float64{shifted.WindowCorrelation, shifted.OverallCorrelation}) {
			t.Errorf("lag %d: window %f/%f, overall %f/%f", lag,
				direct.WindowCorrelation, shifted.WindowCorrelation,
				direct.OverallCorrelation, shifted.OverallCorrelation)
		}
	}
}

func TestCorrelateClipsWindowToSeries(t *testing.T) {
	p := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	s := []float64{8, 7, 6, 5, 4, 3, 2, 1}
	tests := []struct {
		name string
		w    Window
		want IndexRange
	}{
		{"wider than series", Window{Size: 100, Center: 4}, IndexRange{Start: 0, End: 8}},
		{"past the end", Window{Size: 6, Center: 7}, IndexRange{Start: 4, End: 8}},
		{"before the start", Window{Size: 4, Center: 0}, IndexRange{Start: 0, End: 2}},
		{"inside", Window{Size: 4, Center: 4}, IndexRange{Start: 2, End: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Correlate(merged(p, s), 0, tt.w)
			if err != nil {
				t.Fatalf("Correlate: %v", err)
			}
			if res.PrimaryRange != tt.want {
				t.Errorf("range = %+v, want %+v", res.PrimaryRange, tt.want)
			}
			if math.Abs(res.WindowCorrelation+1) > 1e-12 {
				t.Errorf("window correlation = %f, want -1", res.WindowCorrelation)
			}
		})
	}
}
