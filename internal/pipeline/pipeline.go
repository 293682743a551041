// Package pipeline turns a request (price area, year, variables, detector
// parameters) into fetched series and analysis results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
)

var (
	// ErrInvalidParams wraps every request validation failure.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrUnknownArea means the price area is not configured.
	ErrUnknownArea = errors.New("unknown price area")
)

// WeatherSource returns hourly weather for a query. *data.WeatherProvider
// implements it.
type WeatherSource interface {
	Hourly(ctx context.Context, q data.WeatherQuery) (data.Fetched[*model.WeatherResponse], error)
}

// EnergySource returns energy records, raw or reduced to one filtered
// series. *data.EnergyProvider implements it.
type EnergySource interface {
	Series(ctx context.Context, f data.EnergyFilter) (data.Fetched[model.TimeSeries], error)
	Records(ctx context.Context, kind model.EnergyKind) (data.Fetched[[]model.EnergyRecord], error)
}

// Recorder receives the duration of each analysis.
type Recorder interface {
	ObserveAnalysis(kind string, d time.Duration)
	StaleServed(source string)
}

type Pipeline struct {
	Weather WeatherSource
	Energy  EnergySource
	// Areas defaults to model.DefaultPriceAreas.
	Areas   map[string]model.PriceArea
	Metrics Recorder
	Log     *zap.Logger
}

// Provenance describes where one input series came from.
type Provenance struct {
	Source    string    `json:"source"`
	Series    string    `json:"series"`
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
	Stale     bool      `json:"stale"`
}

func (p *Pipeline) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// Area resolves a price area ID case-insensitively.
func (p *Pipeline) Area(id string) (model.PriceArea, error) {
	areas := p.Areas
	if areas == nil {
		areas = model.DefaultPriceAreas
	}
	a, ok := areas[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return model.PriceArea{}, fmt.Errorf("%w: %q", ErrUnknownArea, id)
	}
	return a, nil
}

// weather fetches the full default variable set for a year so that every
// analysis of the same area and year shares one cache entry.
func (p *Pipeline) weather(ctx context.Context, areaID string, year int) (*model.WeatherResponse, Provenance, error) {
	area, err := p.Area(areaID)
	if err != nil {
		return nil, Provenance{}, err
	}
	if p.Weather == nil {
		return nil, Provenance{}, errors.New("no weather source configured")
	}
	f, err := p.Weather.Hourly(ctx, data.YearQuery(area.Latitude, area.Longitude, year))
	if err != nil {
		return nil, Provenance{}, err
	}
	prov := p.provenance("weather", fmt.Sprintf("%s %d", area.ID, year), f.FetchedAt, f.Cached, f.Stale)
	return f.Value, prov, nil
}

func (p *Pipeline) weatherSeries(ctx context.Context, areaID string, year int, variable string) (model.TimeSeries, Provenance, error) {
	resp, prov, err := p.weather(ctx, areaID, year)
	if err != nil {
		return model.TimeSeries{}, Provenance{}, err
	}
	s, err := resp.Series(variable)
	if err != nil {
		return model.TimeSeries{}, Provenance{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return s.Sorted(), prov, nil
}

func (p *Pipeline) energySeries(ctx context.Context, f data.EnergyFilter) (model.TimeSeries, Provenance, error) {
	if !f.Kind.Valid() {
		return model.TimeSeries{}, Provenance{}, fmt.Errorf("%w: energy kind %q", ErrInvalidParams, f.Kind)
	}
	if _, err := p.Area(f.Area); err != nil {
		return model.TimeSeries{}, Provenance{}, err
	}
	if p.Energy == nil {
		return model.TimeSeries{}, Provenance{}, errors.New("no energy source configured")
	}
	fe, err := p.Energy.Series(ctx, f)
	if err != nil {
		return model.TimeSeries{}, Provenance{}, err
	}
	return fe.Value, p.provenance("energy", f.Name(), fe.FetchedAt, fe.Cached, fe.Stale), nil
}

func (p *Pipeline) provenance(source, series string, at time.Time, cached, stale bool) Provenance {
	if stale {
		p.log().Warn("analysis uses last known good data",
			zap.String("source", source),
			zap.String("series", series),
			zap.Time("fetched_at", at))
		if p.Metrics != nil {
			p.Metrics.StaleServed(source)
		}
	}
	return Provenance{Source: source, Series: series, FetchedAt: at, Cached: cached, Stale: stale}
}

// timed runs fn and reports its duration under kind.
func (p *Pipeline) timed(kind string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	if p.Metrics != nil {
		p.Metrics.ObserveAnalysis(kind, d)
	}
	if err != nil {
		p.log().Debug("analysis failed", zap.String("analysis", kind), zap.Error(err))
		return err
	}
	p.log().Debug("analysis done", zap.String("analysis", kind), zap.Duration("elapsed", d))
	return nil
}

// filled returns the values of s with NaN runs interpolated and the number
// of values that were filled. A series without any value cannot be filled.
func filled(s model.TimeSeries) ([]float64, int, error) {
	v := s.Values()
	missing := analysis.CountMissing(v)
	if missing == len(v) {
		return nil, 0, fmt.Errorf("%s has no values: %w", s.Name, model.ErrInsufficientData)
	}
	return analysis.FillGaps(v), missing, nil
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidParams, err)
}
