package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
)

// ForecastRequest fits a SARIMA model to one energy series. TrainStart and
// TrainEnd are calendar days; the end day is included. A zero bound leaves
// that side open, so a request with only Energy.Year trains on that year.
type ForecastRequest struct {
	Energy     data.EnergyFilter
	TrainStart time.Time
	TrainEnd   time.Time
	Params     model.ForecastParams
}

func (r ForecastRequest) Validate() error {
	if r.Energy.Area == "" {
		return invalid(fmt.Errorf("area is required"))
	}
	if !r.TrainStart.IsZero() && !r.TrainEnd.IsZero() && r.TrainEnd.Before(r.TrainStart) {
		return invalid(fmt.Errorf("training end %s is before start %s",
			r.TrainEnd.Format(time.DateOnly), r.TrainStart.Format(time.DateOnly)))
	}
	return invalid(r.Params.Validate())
}

type ForecastReport struct {
	// Series is the training window on an hourly grid, gaps as NaN.
	Series model.TimeSeries
	Filled int
	// Times are the hours the forecast covers, starting one hour after the
	// last training sample.
	Times      []time.Time
	Result     *analysis.ForecastResult
	Provenance []Provenance
}

// Forecast trains on the filtered energy series within the training range
// and predicts Params.Horizon hours ahead with a confidence band.
func (p *Pipeline) Forecast(ctx context.Context, req ForecastRequest) (*ForecastReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s, prov, err := p.energySeries(ctx, req.Energy)
	if err != nil {
		return nil, err
	}
	s = hourlyGrid(trainingWindow(s.Sorted(), req.TrainStart, req.TrainEnd))
	if s.Len() == 0 {
		return nil, fmt.Errorf("%s has no records in the training range: %w", req.Energy.Name(), model.ErrInsufficientData)
	}
	values, n, err := filled(s)
	if err != nil {
		return nil, err
	}

	rep := &ForecastReport{Series: s, Filled: n, Provenance: []Provenance{prov}}
	err = p.timed("forecast", func() error {
		res, err := analysis.Forecast(values, req.Params)
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}

	last := s.Points[s.Len()-1].Time
	rep.Times = make([]time.Time, len(rep.Result.Forecast))
	for i := range rep.Times {
		rep.Times[i] = last.Add(time.Duration(i+1) * time.Hour)
	}
	return rep, nil
}

// trainingWindow keeps points from the start day through the end day.
func trainingWindow(s model.TimeSeries, start, end time.Time) model.TimeSeries {
	if start.IsZero() && end.IsZero() {
		return s
	}
	var upper time.Time
	if !end.IsZero() {
		upper = end.Truncate(24 * time.Hour).Add(24 * time.Hour)
	}
	out := model.TimeSeries{Name: s.Name}
	for _, pt := range s.Points {
		if !start.IsZero() && pt.Time.Before(start) {
			continue
		}
		if !upper.IsZero() && !pt.Time.Before(upper) {
			continue
		}
		out.Points = append(out.Points, pt)
	}
	return out
}

// hourlyGrid spreads a sorted series over every hour between its first and
// last point. Hours without a record are NaN.
func hourlyGrid(s model.TimeSeries) model.TimeSeries {
	if s.Len() < 2 {
		return s
	}
	first := s.Points[0].Time.Truncate(time.Hour)
	last := s.Points[s.Len()-1].Time.Truncate(time.Hour)
	n := int(last.Sub(first)/time.Hour) + 1

	times := make([]time.Time, n)
	values := make([]float64, n)
	for i := range times {
		times[i] = first.Add(time.Duration(i) * time.Hour)
		values[i] = math.NaN()
	}
	for _, pt := range s.Points {
		i := int(pt.Time.Truncate(time.Hour).Sub(first) / time.Hour)
		if math.IsNaN(values[i]) {
			values[i] = pt.Value
		} else if !math.IsNaN(pt.Value) {
			values[i] += pt.Value
		}
	}
	return model.NewSeries(s.Name, times, values)
}
