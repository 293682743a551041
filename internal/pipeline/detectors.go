package pipeline

import (
	"context"
	"fmt"

	"gridweather/internal/analysis"
	"gridweather/internal/model"
)

// WeatherSelector picks one weather variable of a price area for a year.
type WeatherSelector struct {
	Area     string
	Year     int
	Variable string
}

func (s WeatherSelector) validate() error {
	if s.Area == "" {
		return invalid(fmt.Errorf("area is required"))
	}
	if s.Year == 0 {
		return invalid(fmt.Errorf("year is required"))
	}
	return nil
}

// OutlierRequest runs the SPC detector. Variable defaults to temperature.
type OutlierRequest struct {
	Weather WeatherSelector
	Params  model.SPCParams
}

type OutlierReport struct {
	Series model.TimeSeries
	// Filled counts missing values interpolated before detection.
	Filled     int
	Result     *analysis.SPCResult
	Provenance []Provenance
}

func (p *Pipeline) Outliers(ctx context.Context, req OutlierRequest) (*OutlierReport, error) {
	if req.Weather.Variable == "" {
		req.Weather.Variable = model.VarTemperature
	}
	if err := req.Weather.validate(); err != nil {
		return nil, err
	}
	if err := req.Params.Validate(); err != nil {
		return nil, invalid(err)
	}

	s, prov, err := p.weatherSeries(ctx, req.Weather.Area, req.Weather.Year, req.Weather.Variable)
	if err != nil {
		return nil, err
	}
	values, n, err := filled(s)
	if err != nil {
		return nil, err
	}

	rep := &OutlierReport{Series: s, Filled: n, Provenance: []Provenance{prov}}
	err = p.timed("spc", func() error {
		res, err := analysis.DetectSPC(values, req.Params.FreqCutoff, req.Params.NumStd)
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// AnomalyRequest runs the LOF detector. Variable defaults to precipitation.
type AnomalyRequest struct {
	Weather WeatherSelector
	Params  model.LOFParams
}

type AnomalyReport struct {
	Series     model.TimeSeries
	Filled     int
	Result     *analysis.LOFResult
	Provenance []Provenance
}

func (p *Pipeline) Anomalies(ctx context.Context, req AnomalyRequest) (*AnomalyReport, error) {
	if req.Weather.Variable == "" {
		req.Weather.Variable = model.VarPrecipitation
	}
	if err := req.Weather.validate(); err != nil {
		return nil, err
	}
	if err := req.Params.Validate(); err != nil {
		return nil, invalid(err)
	}

	s, prov, err := p.weatherSeries(ctx, req.Weather.Area, req.Weather.Year, req.Weather.Variable)
	if err != nil {
		return nil, err
	}
	values, n, err := filled(s)
	if err != nil {
		return nil, err
	}

	rep := &AnomalyReport{Series: s, Filled: n, Provenance: []Provenance{prov}}
	err = p.timed("lof", func() error {
		res, err := analysis.DetectLOF(values, req.Params.Neighbors, req.Params.Contamination)
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}
