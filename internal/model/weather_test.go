package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestWeatherResponseSeries(t *testing.T) {
	raw := `{
		"latitude": 59.9,
		"longitude": 10.75,
		"utc_offset_seconds": 0,
		"timezone": "GMT",
		"hourly": {
			"time": [1609459200, 1609462800, 1609466400],
			"temperature_2m": [-3.5, null, -2.0],
			"precipitation": [0, 0.2, 0.1]
		}
	}`
	var resp WeatherResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	temp, err := resp.Series(VarTemperature)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if temp.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", temp.Len())
	}
	if !temp.Points[0].Time.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first timestamp %v", temp.Points[0].Time)
	}
	if !math.IsNaN(temp.Points[1].Value) {
		t.Errorf("null should decode to NaN, got %v", temp.Points[1].Value)
	}
	if temp.Missing() != 1 {
		t.Errorf("expected 1 missing value, got %d", temp.Missing())
	}

	if _, err := resp.Series(VarWindSpeed); err == nil {
		t.Error("expected error for absent variable")
	}

	vars := resp.Variables()
	if len(vars) != 2 || vars[0] != VarTemperature || vars[1] != VarPrecipitation {
		t.Errorf("unexpected variables %v", vars)
	}
}

func TestHourlyBlockRoundTripKeepsColumns(t *testing.T) {
	v := 1.5
	in := HourlyBlock{Time: []int64{0, 3600}, Values: map[string][]*float64{"wind_speed_10m": {&v, nil}}}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out HourlyBlock
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	col := out.Values["wind_speed_10m"]
	if len(out.Time) != 2 || len(col) != 2 || col[0] == nil || *col[0] != 1.5 || col[1] != nil {
		t.Fatalf("unexpected block %+v", out)
	}
}
