package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gridweather/internal/data"
	"gridweather/internal/model"
)

var t0 = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

// weatherResponse builds an hourly response starting at start.
func weatherResponse(start time.Time, cols map[string][]float64) *model.WeatherResponse {
	resp := &model.WeatherResponse{Hourly: model.HourlyBlock{Values: map[string][]*float64{}}}
	n := 0
	for name, vals := range cols {
		ptrs := make([]*float64, len(vals))
		for i := range vals {
			if !math.IsNaN(vals[i]) {
				v := vals[i]
				ptrs[i] = &v
			}
		}
		resp.Hourly.Values[name] = ptrs
		n = len(vals)
	}
	resp.Hourly.Time = make([]int64, n)
	for i := range resp.Hourly.Time {
		resp.Hourly.Time[i] = start.Add(time.Duration(i) * time.Hour).Unix()
	}
	return resp
}

type stubWeather struct {
	build   func(q data.WeatherQuery) *model.WeatherResponse
	err     error
	stale   bool
	queries []data.WeatherQuery
}

func (s *stubWeather) Hourly(_ context.Context, q data.WeatherQuery) (data.Fetched[*model.WeatherResponse], error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return data.Fetched[*model.WeatherResponse]{}, s.err
	}
	return data.Fetched[*model.WeatherResponse]{Value: s.build(q), FetchedAt: t0, Stale: s.stale}, nil
}

type stubEnergy struct {
	series  model.TimeSeries
	records []model.EnergyRecord
	stale   bool
	err     error
	last    data.EnergyFilter
}

func (s *stubEnergy) Series(_ context.Context, f data.EnergyFilter) (data.Fetched[model.TimeSeries], error) {
	s.last = f
	if s.err != nil {
		return data.Fetched[model.TimeSeries]{}, s.err
	}
	return data.Fetched[model.TimeSeries]{Value: s.series, FetchedAt: t0, Cached: true}, nil
}

func (s *stubEnergy) Records(_ context.Context, kind model.EnergyKind) (data.Fetched[[]model.EnergyRecord], error) {
	s.last = data.EnergyFilter{Kind: kind}
	if s.err != nil {
		return data.Fetched[[]model.EnergyRecord]{}, s.err
	}
	return data.Fetched[[]model.EnergyRecord]{Value: s.records, FetchedAt: t0, Stale: s.stale}, nil
}

type recorder struct {
	analyses []string
	stale    []string
}

func (r *recorder) ObserveAnalysis(kind string, _ time.Duration) { r.analyses = append(r.analyses, kind) }
func (r *recorder) StaleServed(source string)                    { r.stale = append(r.stale, source) }

func temperatures(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 5*math.Sin(2*math.Pi*float64(i)/24) + 0.3*float64(i%7)
	}
	return out
}

// laggedEnergy responds to temperature three hours later.
func laggedEnergy(temp []float64) model.TimeSeries {
	times := make([]time.Time, 0, len(temp))
	vals := make([]float64, 0, len(temp))
	for i := 3; i < len(temp); i++ {
		times = append(times, t0.Add(time.Duration(i)*time.Hour))
		vals = append(vals, 1000-20*temp[i-3])
	}
	return model.NewSeries("production NO1 2021", times, vals)
}

func correlationFixture(n int) (*Pipeline, *stubWeather, *stubEnergy, *recorder) {
	temp := temperatures(n)
	w := &stubWeather{build: func(data.WeatherQuery) *model.WeatherResponse {
		return weatherResponse(t0, map[string][]float64{model.VarTemperature: temp})
	}}
	e := &stubEnergy{series: laggedEnergy(temp)}
	rec := &recorder{}
	return &Pipeline{Weather: w, Energy: e, Metrics: rec}, w, e, rec
}

func correlationRequest(lag int) CorrelationRequest {
	return CorrelationRequest{
		Energy:   data.EnergyFilter{Kind: model.Production, Area: "no1", Year: 2021},
		Variable: model.VarTemperature,
		Params:   model.CorrelationParams{Lag: lag, WindowSize: 48, Center: 100},
	}
}

func TestCorrelationFindsLaggedResponse(t *testing.T) {
	p, w, e, rec := correlationFixture(300)

	rep, err := p.Correlation(context.Background(), correlationRequest(3))
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if rep.Merged.Len() != 297 {
		t.Errorf("merged rows = %d, want 297", rep.Merged.Len())
	}
	if got := rep.Result.WindowCorrelation; math.Abs(got+1) > 1e-9 {
		t.Errorf("window correlation = %f, want -1", got)
	}
	if len(rep.Provenance) != 2 || !rep.Provenance[0].Cached {
		t.Errorf("provenance = %+v", rep.Provenance)
	}
	if len(w.queries) != 1 || w.queries[0].Latitude != model.DefaultPriceAreas["NO1"].Latitude {
		t.Errorf("weather queries = %+v", w.queries)
	}
	if e.last.Area != "no1" || e.last.Year != 2021 {
		t.Errorf("energy filter = %+v", e.last)
	}
	if len(rec.analyses) != 1 || rec.analyses[0] != "correlation" {
		t.Errorf("recorded = %v", rec.analyses)
	}
}

func TestLagScanRanksTrueLag(t *testing.T) {
	p, _, _, _ := correlationFixture(300)
	rep, err := p.LagScan(context.Background(), LagScanRequest{
		Energy:     correlationRequest(0).Energy,
		Variable:   model.VarTemperature,
		WindowSize: 48,
		Center:     150,
		MinLag:     -12,
		MaxLag:     12,
		Step:       1,
	})
	if err != nil {
		t.Fatalf("LagScan: %v", err)
	}
	best, ok := rep.Best()
	if !ok || best.Lag != 3 {
		t.Fatalf("best = %+v (ok=%v), want lag 3", best, ok)
	}
	if len(rep.Scores) != 25 {
		t.Errorf("scores = %d, want 25", len(rep.Scores))
	}
}

func TestCorrelationErrors(t *testing.T) {
	upstream := &model.UpstreamFetchError{Source: "open-meteo", Code: "API_ERROR", Message: "down", StatusCode: 503}

	tests := []struct {
		name   string
		mutate func(*Pipeline, *CorrelationRequest)
		check  func(error) bool
	}{
		{"unknown area", func(_ *Pipeline, r *CorrelationRequest) { r.Energy.Area = "SE3" },
			func(err error) bool { return errors.Is(err, ErrUnknownArea) }},
		{"window out of range", func(_ *Pipeline, r *CorrelationRequest) { r.Params.WindowSize = 10 },
			func(err error) bool { return errors.Is(err, ErrInvalidParams) }},
		{"missing variable", func(_ *Pipeline, r *CorrelationRequest) { r.Variable = "snow_depth" },
			func(err error) bool { return errors.Is(err, ErrInvalidParams) }},
		{"no shared hours", func(p *Pipeline, _ *CorrelationRequest) {
			p.Energy = &stubEnergy{series: model.NewSeries("x", []time.Time{t0.AddDate(-1, 0, 0)}, []float64{1})}
		}, func(err error) bool { return errors.Is(err, model.ErrEmptyIntersection) }},
		{"weather outage", func(p *Pipeline, _ *CorrelationRequest) { p.Weather = &stubWeather{err: upstream} },
			func(err error) bool {
				var u *model.UpstreamFetchError
				return errors.As(err, &u) && u.StatusCode == 503
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _, _ := correlationFixture(100)
			req := correlationRequest(0)
			tt.mutate(p, &req)
			_, err := p.Correlation(context.Background(), req)
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func spikeTemperatures() []float64 {
	out := make([]float64, 200)
	s := uint64(42)
	for i := range out {
		s = (s*1103515245 + 12345) % (1 << 31)
		out[i] = 50 + 0.05*float64(i) + 6*float64(s)/float64(1<<31) - 3
	}
	out[50] += 100
	return out
}

func TestOutliersFillsGapsBeforeDetection(t *testing.T) {
	temp := spikeTemperatures()
	temp[120] = math.NaN()
	w := &stubWeather{build: func(data.WeatherQuery) *model.WeatherResponse {
		return weatherResponse(t0, map[string][]float64{model.VarTemperature: temp})
	}}
	p := &Pipeline{Weather: w}

	rep, err := p.Outliers(context.Background(), OutlierRequest{
		Weather: WeatherSelector{Area: "NO5", Year: 2021},
		Params:  model.SPCParams{FreqCutoff: 5, NumStd: 3},
	})
	if err != nil {
		t.Fatalf("Outliers: %v", err)
	}
	if rep.Filled != 1 {
		t.Errorf("filled = %d, want 1", rep.Filled)
	}
	if !rep.Result.Outliers[50] {
		t.Errorf("spike at 50 not flagged: %v", rep.Result.OutlierIndices())
	}
	if rep.Series.Name != model.VarTemperature {
		t.Errorf("default variable = %q", rep.Series.Name)
	}
}

func TestOutliersRejectsAllMissing(t *testing.T) {
	empty := []float64{math.NaN(), math.NaN(), math.NaN()}
	w := &stubWeather{build: func(data.WeatherQuery) *model.WeatherResponse {
		return weatherResponse(t0, map[string][]float64{model.VarTemperature: empty})
	}}
	p := &Pipeline{Weather: w}
	_, err := p.Outliers(context.Background(), OutlierRequest{
		Weather: WeatherSelector{Area: "NO1", Year: 2021},
		Params:  model.SPCParams{FreqCutoff: 1, NumStd: 3},
	})
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestAnomaliesFlagsIsolatedPrecipitation(t *testing.T) {
	precip := make([]float64, 100)
	for i := range precip {
		precip[i] = float64(i%10) * 0.1
	}
	precip[70] = 40
	w := &stubWeather{build: func(data.WeatherQuery) *model.WeatherResponse {
		return weatherResponse(t0, map[string][]float64{model.VarPrecipitation: precip})
	}}
	p := &Pipeline{Weather: w}

	rep, err := p.Anomalies(context.Background(), AnomalyRequest{
		Weather: WeatherSelector{Area: "NO3", Year: 2021},
		Params:  model.LOFParams{Neighbors: 10, Contamination: 0.01},
	})
	if err != nil {
		t.Fatalf("Anomalies: %v", err)
	}
	idx := rep.Result.AnomalyIndices()
	if len(idx) != 1 || idx[0] != 70 {
		t.Fatalf("anomalies = %v, want [70]", idx)
	}
}

func dailyEnergy(days int) model.TimeSeries {
	n := days * 24
	times := make([]time.Time, n)
	vals := make([]float64, n)
	for i := range vals {
		times[i] = t0.Add(time.Duration(i) * time.Hour)
		vals[i] = 500 + float64(i)*0.5 + 40*math.Sin(2*math.Pi*float64(i)/24)
	}
	return model.NewSeries("production NO2 hydro 2021", times, vals)
}

func TestDecomposition(t *testing.T) {
	p := &Pipeline{Energy: &stubEnergy{series: dailyEnergy(20)}}
	rep, err := p.Decomposition(context.Background(), DecompositionRequest{
		Energy: data.EnergyFilter{Kind: model.Production, Area: "NO2", Group: "hydro", Year: 2021},
		Params: model.STLParams{Period: 24, Seasonal: 7, Trend: 169, Robust: true},
	})
	if err != nil {
		t.Fatalf("Decomposition: %v", err)
	}
	r := rep.Result
	for i := range r.Observed {
		sum := r.Trend[i] + r.Seasonal[i] + r.Residual[i]
		if math.Abs(sum-r.Observed[i]) > 1e-9 {
			t.Fatalf("row %d: components sum to %f, observed %f", i, sum, r.Observed[i])
		}
	}

	_, err = p.Decomposition(context.Background(), DecompositionRequest{
		Energy: data.EnergyFilter{Kind: model.Production, Area: "NO2", Year: 2021},
		Params: model.STLParams{Period: 24, Seasonal: 8, Trend: 169},
	})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("even seasonal: err = %v", err)
	}
}

func TestSpectrogram(t *testing.T) {
	p := &Pipeline{Energy: &stubEnergy{series: dailyEnergy(30)}}
	rep, err := p.Spectrogram(context.Background(), SpectrogramRequest{
		Energy: data.EnergyFilter{Kind: model.Consumption, Area: "NO1", Year: 2021},
		Params: model.SpectrogramParams{SegmentLength: 96, Overlap: 48},
	})
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}
	if len(rep.Result.Frequencies) != 49 {
		t.Errorf("frequencies = %d, want 49", len(rep.Result.Frequencies))
	}
}

func TestSnowDriftFetchesEverySeason(t *testing.T) {
	w := &stubWeather{stale: true, build: func(q data.WeatherQuery) *model.WeatherResponse {
		n := int(q.End.AddDate(0, 0, 1).Sub(q.Start).Hours())
		cols := map[string][]float64{}
		for _, v := range snowDriftVariables {
			cols[v] = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			cols[model.VarTemperature][i] = -5
			cols[model.VarPrecipitation][i] = 0.2
			cols[model.VarWindSpeed][i] = 10
			cols[model.VarWindDirection][i] = 270
		}
		return weatherResponse(q.Start, cols)
	}}
	rec := &recorder{}
	core, logs := observer.New(zapcore.WarnLevel)
	p := &Pipeline{Weather: w, Metrics: rec, Log: zap.New(core)}

	rep, err := p.SnowDrift(context.Background(), SnowDriftRequest{Area: "NO4", FromYear: 2021, ToYear: 2022})
	if err != nil {
		t.Fatalf("SnowDrift: %v", err)
	}
	if len(w.queries) != 2 {
		t.Fatalf("queries = %d, want 2", len(w.queries))
	}
	if q := w.queries[1]; !q.Start.Equal(time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)) || !q.End.Equal(time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second season query = %v..%v", q.Start, q.End)
	}
	if rep.Latitude != model.DefaultPriceAreas["NO4"].Latitude {
		t.Errorf("latitude = %f", rep.Latitude)
	}
	if len(rep.Result.Seasons) != 2 || rep.Result.Seasons[0].Hours != 8760 {
		t.Fatalf("seasons = %+v", rep.Result.Seasons)
	}
	sectors := rep.Result.MeanSectors
	if sectors[12] == 0 || sectors[0] != 0 {
		t.Errorf("westerly wind should land in sector W only: %v", sectors)
	}
	if len(rec.stale) != 2 || !rep.Provenance[0].Stale {
		t.Errorf("stale data not reported: %v %+v", rec.stale, rep.Provenance)
	}
	if n := logs.FilterMessage("analysis uses last known good data").Len(); n != 2 {
		t.Errorf("stale warnings logged = %d, want 2", n)
	}
}

func TestHourlyWeatherRequiresVariables(t *testing.T) {
	resp := weatherResponse(t0, map[string][]float64{model.VarTemperature: {1, 2}})
	if _, err := HourlyWeather(resp); err == nil {
		t.Fatal("expected error for missing wind columns")
	}
}

func TestCatalogCoversOperations(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog() {
		if seen[a.Name] {
			t.Errorf("duplicate analysis %q", a.Name)
		}
		seen[a.Name] = true
		if len(a.Parameters) == 0 {
			t.Errorf("%s has no parameters", a.Name)
		}
	}
	for _, want := range []string{"correlation", "lag_scan", "outliers", "anomalies", "decomposition", "spectrogram", "snow_drift",
		"forecast", "group_shares", "monthly_totals", "area_means"} {
		if !seen[want] {
			t.Errorf("catalog missing %q", want)
		}
	}
}

func TestCorrelationCentresPastEndOnMiddleRow(t *testing.T) {
	p, _, _, _ := correlationFixture(300)
	req := correlationRequest(3)
	req.Params.Center = model.DefaultCenter

	rep, err := p.Correlation(context.Background(), req)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if rep.Result.Window.Center != 148 {
		t.Errorf("centre = %d, want 148 (middle of 297 rows)", rep.Result.Window.Center)
	}
	if math.IsNaN(rep.Result.WindowCorrelation) {
		t.Error("window correlation undefined for the mid-series window")
	}

	scan, err := p.LagScan(context.Background(), LagScanRequest{
		Energy: req.Energy, Variable: req.Variable, WindowSize: 48, Center: model.DefaultCenter, MinLag: 0, MaxLag: 6, Step: 1,
	})
	if err != nil {
		t.Fatalf("LagScan: %v", err)
	}
	if scan.Window.Center != 148 {
		t.Errorf("scan centre = %d, want 148", scan.Window.Center)
	}
}
