package pipeline

import (
	"context"
	"fmt"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
)

// DecompositionRequest runs STL on one energy series.
type DecompositionRequest struct {
	Energy data.EnergyFilter
	Params model.STLParams
}

type DecompositionReport struct {
	Series     model.TimeSeries
	Filled     int
	Result     *analysis.STLResult
	Provenance []Provenance
}

func (p *Pipeline) Decomposition(ctx context.Context, req DecompositionRequest) (*DecompositionReport, error) {
	if req.Energy.Area == "" {
		return nil, invalid(fmt.Errorf("area is required"))
	}
	if err := req.Params.Validate(); err != nil {
		return nil, invalid(err)
	}

	s, prov, err := p.energySeries(ctx, req.Energy)
	if err != nil {
		return nil, err
	}
	values, n, err := filled(s)
	if err != nil {
		return nil, err
	}

	rep := &DecompositionReport{Series: s, Filled: n, Provenance: []Provenance{prov}}
	err = p.timed("stl", func() error {
		res, err := analysis.STL(values, analysis.STLOptions{
			Period:   req.Params.Period,
			Seasonal: req.Params.Seasonal,
			Trend:    req.Params.Trend,
			Robust:   req.Params.Robust,
		})
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// SpectrogramRequest computes the short-time spectrum of one energy series.
type SpectrogramRequest struct {
	Energy data.EnergyFilter
	Params model.SpectrogramParams
}

type SpectrogramReport struct {
	Series     model.TimeSeries
	Filled     int
	Result     *analysis.SpectrogramResult
	Provenance []Provenance
}

func (p *Pipeline) Spectrogram(ctx context.Context, req SpectrogramRequest) (*SpectrogramReport, error) {
	if req.Energy.Area == "" {
		return nil, invalid(fmt.Errorf("area is required"))
	}
	if err := req.Params.Validate(); err != nil {
		return nil, invalid(err)
	}

	s, prov, err := p.energySeries(ctx, req.Energy)
	if err != nil {
		return nil, err
	}
	values, n, err := filled(s)
	if err != nil {
		return nil, err
	}

	rep := &SpectrogramReport{Series: s, Filled: n, Provenance: []Provenance{prov}}
	err = p.timed("spectrogram", func() error {
		res, err := analysis.Spectrogram(values, analysis.SpectrogramOptions{
			SegmentLength: req.Params.SegmentLength,
			Overlap:       req.Params.Overlap,
			SampleRate:    1,
		})
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}
