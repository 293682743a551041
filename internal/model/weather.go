package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Meteorological variables offered by the ERA5 archive that the dashboard uses.
const (
	VarTemperature   = "temperature_2m"
	VarPrecipitation = "precipitation"
	VarWindSpeed     = "wind_speed_10m"
	VarWindGusts     = "wind_gusts_10m"
	VarWindDirection = "wind_direction_10m"
)

// DefaultWeatherVariables is the full variable set requested when none is given.
var DefaultWeatherVariables = []string{
	VarTemperature,
	VarPrecipitation,
	VarWindSpeed,
	VarWindGusts,
	VarWindDirection,
}

// WeatherResponse matches the JSON shape of the Open-Meteo archive API when
// requested with timeformat=unixtime.
//
// Example:
// {
//   "latitude": 59.9,
//   "longitude": 10.75,
//   "hourly": {"time": [1609459200, ...], "temperature_2m": [-3.1, ...]}
// }
type WeatherResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Timezone         string  `json:"timezone"`

	Hourly HourlyBlock `json:"hourly"`
}

// HourlyBlock holds the column-oriented hourly payload. Values are pointers
// because the API returns null for missing observations.
type HourlyBlock struct {
	Time   []int64
	Values map[string][]*float64
}

// Series extracts one variable as a TimeSeries. Null entries become NaN.
func (r *WeatherResponse) Series(variable string) (TimeSeries, error) {
	if r == nil {
		return TimeSeries{}, fmt.Errorf("weather response is nil")
	}
	col, ok := r.Hourly.Values[variable]
	if !ok {
		return TimeSeries{}, fmt.Errorf("variable %q not present in weather response", variable)
	}
	if len(col) != len(r.Hourly.Time) {
		return TimeSeries{}, fmt.Errorf("variable %q has %d values for %d timestamps", variable, len(col), len(r.Hourly.Time))
	}
	pts := make([]Point, len(col))
	for i, v := range col {
		val := math.NaN()
		if v != nil {
			val = *v
		}
		pts[i] = Point{Time: time.Unix(r.Hourly.Time[i], 0).UTC(), Value: val}
	}
	return TimeSeries{Name: variable, Points: pts}, nil
}

// Variables lists the hourly variables present in the response.
func (r *WeatherResponse) Variables() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Hourly.Values))
	for _, v := range DefaultWeatherVariables {
		if _, ok := r.Hourly.Values[v]; ok {
			out = append(out, v)
		}
	}
	for k := range r.Hourly.Values {
		if !contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// UnmarshalJSON splits the "time" column from the variable columns.
func (h *HourlyBlock) UnmarshalJSON(raw []byte) error {
	var cols map[string]json.RawMessage
	if err := json.Unmarshal(raw, &cols); err != nil {
		return err
	}
	h.Values = make(map[string][]*float64, len(cols))
	for name, col := range cols {
		if name == "time" {
			if err := json.Unmarshal(col, &h.Time); err != nil {
				return fmt.Errorf("hourly.time: %w", err)
			}
			continue
		}
		var vals []*float64
		if err := json.Unmarshal(col, &vals); err != nil {
			return fmt.Errorf("hourly.%s: %w", name, err)
		}
		h.Values[name] = vals
	}
	return nil
}

// MarshalJSON writes the block back in the API's column layout.
func (h HourlyBlock) MarshalJSON() ([]byte, error) {
	cols := make(map[string]any, len(h.Values)+1)
	cols["time"] = h.Time
	for name, vals := range h.Values {
		cols[name] = vals
	}
	return json.Marshal(cols)
}
