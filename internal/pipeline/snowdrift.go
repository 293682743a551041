package pipeline

import (
	"context"
	"fmt"
	"time"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
)

// snowDriftVariables are the hourly variables the transport model reads.
var snowDriftVariables = []string{
	model.VarTemperature,
	model.VarPrecipitation,
	model.VarWindSpeed,
	model.VarWindDirection,
}

// SnowDriftRequest evaluates the seasons starting July 1 of FromYear through
// ToYear at a coordinate. When Latitude and Longitude are both zero the
// coordinate of Area is used.
type SnowDriftRequest struct {
	Area      string
	Latitude  float64
	Longitude float64
	FromYear  int
	ToYear    int
	Params    model.SnowDriftParams
}

type SnowDriftReport struct {
	Latitude   float64
	Longitude  float64
	Result     *analysis.SnowDriftResult
	Provenance []Provenance
}

func (p *Pipeline) SnowDrift(ctx context.Context, req SnowDriftRequest) (*SnowDriftReport, error) {
	if req.Params == (model.SnowDriftParams{}) {
		req.Params = model.DefaultSnowDriftParams()
	}
	if err := req.Params.Validate(); err != nil {
		return nil, invalid(err)
	}
	if req.FromYear == 0 || req.ToYear < req.FromYear {
		return nil, invalid(fmt.Errorf("season years must satisfy 0 < from <= to"))
	}
	if req.Latitude == 0 && req.Longitude == 0 {
		area, err := p.Area(req.Area)
		if err != nil {
			return nil, err
		}
		req.Latitude, req.Longitude = area.Latitude, area.Longitude
	}
	if p.Weather == nil {
		return nil, fmt.Errorf("no weather source configured")
	}

	var hours []analysis.HourlyWeather
	prov := make([]Provenance, 0, req.ToYear-req.FromYear+1)
	for year := req.FromYear; year <= req.ToYear; year++ {
		start, end := analysis.SeasonBounds(year)
		q := data.WeatherQuery{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Start:     start,
			End:       end.AddDate(0, 0, -1),
			Variables: snowDriftVariables,
		}
		f, err := p.Weather.Hourly(ctx, q)
		if err != nil {
			return nil, err
		}
		h, err := HourlyWeather(f.Value)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h...)
		prov = append(prov, p.provenance("weather",
			fmt.Sprintf("%.2f,%.2f %d-%d", req.Latitude, req.Longitude, year, year+1),
			f.FetchedAt, f.Cached, f.Stale))
	}

	rep := &SnowDriftReport{Latitude: req.Latitude, Longitude: req.Longitude, Provenance: prov}
	err := p.timed("snow_drift", func() error {
		res, err := analysis.SeasonalSnowDrift(hours, req.Params, req.FromYear, req.ToYear)
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// HourlyWeather converts a weather response into the rows the snow drift
// model consumes. Missing variables are an error; null values become NaN.
func HourlyWeather(resp *model.WeatherResponse) ([]analysis.HourlyWeather, error) {
	cols := make([][]float64, len(snowDriftVariables))
	var times []time.Time
	for i, v := range snowDriftVariables {
		s, err := resp.Series(v)
		if err != nil {
			return nil, fmt.Errorf("snow drift input: %w", err)
		}
		cols[i] = s.Values()
		if times == nil {
			times = s.Times()
		}
	}
	out := make([]analysis.HourlyWeather, len(times))
	for i, t := range times {
		out[i] = analysis.HourlyWeather{
			Time:          t,
			Temperature:   cols[0][i],
			Precipitation: cols[1][i],
			WindSpeed:     cols[2][i],
			WindDirection: cols[3][i],
		}
	}
	return out, nil
}
