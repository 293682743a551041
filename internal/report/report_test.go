package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

var t0 = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

func correlationReport() *pipeline.CorrelationReport {
	m := &analysis.MergedSeries{
		Times:         []time.Time{t0, t0.Add(time.Hour), t0.Add(2 * time.Hour)},
		Primary:       []float64{1, 2, 3},
		Secondary:     []float64{4, 5, 6},
		PrimaryName:   "production NO1 2021",
		SecondaryName: "temperature_2m",
	}
	return &pipeline.CorrelationReport{
		Merged: m,
		Result: &analysis.CorrelationResult{
			Lag:               1,
			Window:            analysis.Window{Size: 2, Center: 1},
			SecondaryLagged:   []float64{math.NaN(), 4, 5},
			Rolling:           []float64{math.NaN(), 1, math.NaN()},
			WindowCorrelation: 1,
			PrimaryRange:      analysis.IndexRange{Start: 0, End: 2},
		},
	}
}

func TestCorrelationTable(t *testing.T) {
	tab := Correlation(correlationReport())
	if len(tab.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tab.Rows))
	}
	if got := tab.Rows[0]; got[4] != "" || got[6] != "true" {
		t.Errorf("row 0 = %v, want empty lagged value inside window", got)
	}
	if got := tab.Rows[2][6]; got != "false" {
		t.Errorf("row 2 in_window = %s", got)
	}
	if got := tab.Rows[1][1]; got != "2021-01-01T01:00:00Z" {
		t.Errorf("time = %s", got)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "corr.csv")
	if err := WriteCSV(path, Correlation(correlationReport())); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 4 || records[0][2] != "production NO1 2021" {
		t.Errorf("records = %v", records)
	}
}

func TestSnowDriftTables(t *testing.T) {
	res := &analysis.SnowDriftResult{
		Seasons: []analysis.SeasonTransport{{
			Season: "2021-2022", StartYear: 2021, Hours: 8760,
			Transport: analysis.Transport{Qt: 12000, Control: model.WindControlled},
		}},
		MeanQt: 12000,
	}
	res.MeanSectors[4] = 3000

	tab := SnowDrift(&pipeline.SnowDriftReport{Latitude: 69.65, Longitude: 18.96, Result: res})
	if tab.Rows[0][8] != "12.000000" || tab.Rows[0][9] != string(model.WindControlled) {
		t.Errorf("season row = %v", tab.Rows[0])
	}
	rose := WindRose(res)
	if len(rose.Rows) != analysis.SectorCount || rose.Rows[4][0] != "E" || rose.Rows[4][1] != "3.000000" {
		t.Errorf("rose row 4 = %v", rose.Rows[4])
	}
}

func TestRenderPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	tab := LagScan(&pipeline.LagScanReport{
		Window: analysis.Window{Size: 48, Center: 10},
		Rows:   100,
		Scores: []analysis.LagScore{{Lag: 3, Correlation: 0.9, Pairs: 48}, {Lag: 0, Correlation: 0.5, Pairs: 48}},
	})
	if err := Render(&buf, tab); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "╭") {
		t.Errorf("rounded border used for a non-terminal writer:\n%s", out)
	}
	if !strings.Contains(out, "0.900000") {
		t.Errorf("missing score:\n%s", out)
	}
	if IsTerminal(&buf) {
		t.Error("buffer reported as terminal")
	}
}

func TestHead(t *testing.T) {
	tab := Table{Header: []string{"a"}, Rows: [][]string{{"1"}, {"2"}, {"3"}}}
	if got := len(tab.Head(2).Rows); got != 2 {
		t.Errorf("head rows = %d", got)
	}
	if got := len(tab.Head(0).Rows); got != 3 {
		t.Errorf("head(0) rows = %d", got)
	}
}

func TestForecastTable(t *testing.T) {
	tab := Forecast(&pipeline.ForecastReport{
		Series: model.NewSeries("production NO1", []time.Time{t0}, []float64{1}),
		Times:  []time.Time{t0.Add(time.Hour), t0.Add(2 * time.Hour)},
		Result: &analysis.ForecastResult{
			Forecast: []float64{10, 11},
			Lower:    []float64{8, 8.5},
			Upper:    []float64{12, 13.5},
			AIC:      math.Inf(-1),
		},
	})
	if len(tab.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tab.Rows))
	}
	if got := tab.Rows[1]; got[0] != "2" || got[1] != "2021-01-01T02:00:00Z" || got[3] != "8.500000" {
		t.Errorf("row 1 = %v", got)
	}
	if !strings.Contains(tab.Title, "AIC ,") {
		t.Errorf("infinite AIC should render empty: %q", tab.Title)
	}
}

func TestEnergyOverviewTables(t *testing.T) {
	shares := GroupShares(&pipeline.GroupSharesReport{
		Area:   "NO1",
		Shares: []data.GroupShare{{Group: "hydro", TotalKWh: 90, Share: 0.9}, {Group: "wind", TotalKWh: 10, Share: 0.1}},
	})
	if shares.Rows[0][2] != "90.00" || !strings.Contains(shares.Title, "all years") {
		t.Errorf("shares = %q %v", shares.Title, shares.Rows)
	}

	monthly := MonthlyTotals(&pipeline.MonthlyReport{
		Area:   "NO2",
		Totals: []data.MonthlyTotal{{Month: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), Group: "hydro", TotalKWh: 5, Hours: 744}},
	})
	if got := monthly.Rows[0]; got[0] != "2021-03" || got[3] != "744" {
		t.Errorf("monthly row = %v", got)
	}

	means := AreaMeans(&pipeline.AreaMeansReport{Means: []data.AreaMean{{Area: "NO3", MeanKWh: 2.5, Records: 4}}})
	if got := means.Rows[0]; got[0] != "NO3" || got[1] != "2.500000" || !strings.Contains(means.Title, "all groups") {
		t.Errorf("means = %q %v", means.Title, got)
	}
}
