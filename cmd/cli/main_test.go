package main

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridweather/internal/data"
	"gridweather/internal/model"
)

type cliTestEnv struct {
	weatherPath string
	dataDir     string
	baseDir     string
}

// setupCLITestEnv writes ten days of NO1 weather and a production series
// that is a linear function of the temperature.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	resp := &model.WeatherResponse{Latitude: 59.91, Longitude: 10.75, Hourly: model.HourlyBlock{Values: map[string][]*float64{}}}
	var temps []*float64
	var records []model.Record
	for i := 0; i < 240; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		temp := 3*math.Cos(2*math.Pi*float64(i)/24) + 0.05*float64(i%7)
		if i == 150 {
			temp = 40
		}
		temps = append(temps, &temp)
		resp.Hourly.Time = append(resp.Hourly.Time, ts.Unix())
		records = append(records, model.Record{
			"pricearea":       "NO1",
			"productiongroup": "wind",
			"starttime":       ts.Format(time.RFC3339),
			"quantitykwh":     500 - 10*temp,
		})
	}
	resp.Hourly.Values[model.VarTemperature] = temps

	env := &cliTestEnv{
		weatherPath: filepath.Join(base, "weather.json"),
		dataDir:     filepath.Join(base, "data"),
		baseDir:     base,
	}
	if err := data.SaveWeatherJSON(resp, env.weatherPath); err != nil {
		t.Fatalf("write weather: %v", err)
	}
	if err := (data.FileStore{Dir: env.dataDir}).SaveCollection(data.ProductionCollection, records); err != nil {
		t.Fatalf("write production: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--weather", env.weatherPath, "--data-dir", env.dataDir}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCorrelateWritesCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	out := filepath.Join(env.baseDir, "results", "correlation.csv")

	stdout, _, err := runCLI(t, env, "correlate", "--year", "2021", "--window", "48", "--center", "100", "--out", out, "--limit", "5")
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if !strings.Contains(stdout, "Window r=-1.000") {
		t.Errorf("expected perfect negative correlation in output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "(5 of 240 rows)") {
		t.Errorf("expected row limit note:\n%s", stdout)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 241 {
		t.Errorf("csv rows = %d, want header + 240", len(rows))
	}
}

func TestLagsReportsBestLag(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, env, "lags", "--year", "2021", "--window", "48", "--center", "100", "--min-lag", "-3", "--max-lag", "3")
	if err != nil {
		t.Fatalf("lags: %v", err)
	}
	if !strings.Contains(stdout, "Best lag: 0h (r=-1.000") {
		t.Errorf("unexpected best lag:\n%s", stdout)
	}
}

func TestOutliersFlagsSpike(t *testing.T) {
	env := setupCLITestEnv(t)
	out := filepath.Join(env.baseDir, "spc.csv")
	if _, _, err := runCLI(t, env, "outliers", "--year", "2021", "--cutoff", "10", "--out", out); err != nil {
		t.Fatalf("outliers: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if !strings.HasSuffix(lines[151], ",true") {
		t.Errorf("spike row not flagged: %s", lines[151])
	}
}

func TestCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing year", []string{"correlate"}, `"year" not set`},
		{"unknown area", []string{"correlate", "--year", "2021", "--area", "NO9"}, "unknown price area"},
		{"window too small", []string{"correlate", "--year", "2021", "--window", "2"}, "window must be in"},
		{"no shared hours", []string{"correlate", "--year", "2022"}, "share no timestamps"},
		{"forecast short order", []string{"forecast", "--from", "2021-01-01", "--to", "2021-01-10", "--order", "1,1"}, "--order takes p,d,q"},
		{"forecast bad date", []string{"forecast", "--from", "1/1/2021", "--to", "2021-01-10"}, "want YYYY-MM-DD"},
		{"forecast too short", []string{"forecast", "--from", "2021-01-01", "--to", "2021-01-01"}, "insufficient data"},
		{"shares unknown area", []string{"shares", "--area", "NO9"}, "unknown price area"},
		{"means reversed", []string{"means", "--from", "2021-01-05", "--to", "2021-01-01"}, "is before start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, env, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestAreasExport(t *testing.T) {
	env := setupCLITestEnv(t)
	out := filepath.Join(env.baseDir, "areas.json")
	stdout, _, err := runCLI(t, env, "areas", "--export", out)
	if err != nil {
		t.Fatalf("areas: %v", err)
	}
	if !strings.Contains(stdout, "Tromsø") || !strings.Contains(stdout, "Saved 5 areas") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	list, err := data.LoadAreas(out)
	if err != nil {
		t.Fatalf("LoadAreas: %v", err)
	}
	if len(list.Areas) != 5 || list.Areas[0].ID != "NO1" {
		t.Errorf("exported areas = %+v", list.Areas)
	}
}

func TestCenterDefaultsToMidYear(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"correlate", "lags"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if got := cmd.Flags().Lookup("center").DefValue; got != "4380" {
			t.Errorf("%s --center default = %s, want 4380", name, got)
		}
	}

	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, env, "correlate", "--year", "2021", "--window", "48")
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if !strings.Contains(stdout, "Window r=-1.000") {
		t.Errorf("default centre on a short series should fall back to the middle row:\n%s", stdout)
	}
}

func TestForecastPrintsHorizon(t *testing.T) {
	env := setupCLITestEnv(t)
	out := filepath.Join(env.baseDir, "forecast.csv")
	stdout, _, err := runCLI(t, env, "forecast", "--kind", "production", "--group", "wind",
		"--from", "2021-01-01", "--to", "2021-01-10",
		"--order", "0,0,0", "--seasonal-order", "0,1,0,24", "--horizon", "24", "--confidence", "0.9",
		"--out", out)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if !strings.Contains(stdout, "Trained on 240 hours, forecast 24 hours from 2021-01-11T00:00:00Z") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 25 || rows[0][2] != "forecast" {
		t.Errorf("csv rows = %d header = %v", len(rows), rows[0])
	}
}

func TestEnergyOverviewCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "shares", "--year", "2021")
	if err != nil {
		t.Fatalf("shares: %v", err)
	}
	if !strings.Contains(stdout, "wind") || !strings.Contains(stdout, "100.00") {
		t.Errorf("shares output:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, env, "monthly", "--group", "wind")
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if !strings.Contains(stdout, "2021-01") || !strings.Contains(stdout, "240") {
		t.Errorf("monthly output:\n%s", stdout)
	}

	out := filepath.Join(env.baseDir, "means.csv")
	if _, _, err := runCLI(t, env, "means", "--group", "wind", "--from", "2021-01-01", "--to", "2021-01-01", "--out", out); err != nil {
		t.Fatalf("means: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "NO1" || rows[1][2] != "24" {
		t.Errorf("means rows = %v", rows)
	}
}
