package pipeline

import (
	"context"
	"fmt"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
)

// CorrelationRequest pairs an energy series (primary) with one weather
// variable of the same price area and year (secondary).
type CorrelationRequest struct {
	Energy   data.EnergyFilter
	Variable string
	Params   model.CorrelationParams
}

func (r CorrelationRequest) Validate() error {
	if r.Energy.Year == 0 {
		return invalid(fmt.Errorf("year is required"))
	}
	if r.Variable == "" {
		return invalid(fmt.Errorf("variable is required"))
	}
	return invalid(r.Params.Validate())
}

type CorrelationReport struct {
	Merged     *analysis.MergedSeries
	Result     *analysis.CorrelationResult
	Provenance []Provenance
}

// Correlation aligns the two series and runs the lag/window correlation.
func (p *Pipeline) Correlation(ctx context.Context, req CorrelationRequest) (*CorrelationReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	merged, prov, err := p.merge(ctx, req.Energy, req.Variable)
	if err != nil {
		return nil, err
	}

	rep := &CorrelationReport{Merged: merged, Provenance: prov}
	err = p.timed("correlation", func() error {
		res, err := analysis.Correlate(merged, req.Params.Lag, analysis.Window{
			Size:   req.Params.WindowSize,
			Center: centerWithin(req.Params.Center, merged.Len()),
		})
		rep.Result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// LagScanRequest evaluates the window correlation for every lag in
// [MinLag, MaxLag] stepping by Step.
type LagScanRequest struct {
	Energy     data.EnergyFilter
	Variable   string
	WindowSize int
	Center     int
	MinLag     int
	MaxLag     int
	Step       int
}

func (r LagScanRequest) Validate() error {
	base := CorrelationRequest{
		Energy:   r.Energy,
		Variable: r.Variable,
		Params:   model.CorrelationParams{WindowSize: r.WindowSize, Center: r.Center},
	}
	if err := base.Validate(); err != nil {
		return err
	}
	if r.MinLag < model.MinLag || r.MaxLag > model.MaxLag || r.MinLag > r.MaxLag {
		return invalid(fmt.Errorf("lag range must lie in [%d, %d] with min <= max", model.MinLag, model.MaxLag))
	}
	if r.Step < 0 {
		return invalid(fmt.Errorf("step must be >= 0"))
	}
	return nil
}

type LagScanReport struct {
	Window     analysis.Window
	Rows       int
	Scores     []analysis.LagScore
	Provenance []Provenance
}

// Best returns the highest ranked lag, if any lag had a defined correlation.
func (r *LagScanReport) Best() (analysis.LagScore, bool) {
	if len(r.Scores) == 0 || r.Scores[0].Pairs < 2 {
		return analysis.LagScore{}, false
	}
	return r.Scores[0], true
}

func (p *Pipeline) LagScan(ctx context.Context, req LagScanRequest) (*LagScanReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	merged, prov, err := p.merge(ctx, req.Energy, req.Variable)
	if err != nil {
		return nil, err
	}
	w := analysis.Window{Size: req.WindowSize, Center: centerWithin(req.Center, merged.Len())}
	rep := &LagScanReport{Window: w, Rows: merged.Len(), Provenance: prov}
	err = p.timed("lag_scan", func() error {
		rep.Scores = analysis.ScanLags(merged, analysis.LagRange(req.MinLag, req.MaxLag, req.Step), w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// centerWithin moves a centre at or past the last of n rows to the middle
// row, so the mid-year default still works for a partial year.
func centerWithin(center, n int) int {
	if n > 0 && center >= n {
		return n / 2
	}
	return center
}

func (p *Pipeline) merge(ctx context.Context, f data.EnergyFilter, variable string) (*analysis.MergedSeries, []Provenance, error) {
	energy, ep, err := p.energySeries(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	weather, wp, err := p.weatherSeries(ctx, f.Area, f.Year, variable)
	if err != nil {
		return nil, nil, err
	}
	merged, err := analysis.Align(energy, weather)
	if err != nil {
		return nil, nil, err
	}
	return merged, []Provenance{ep, wp}, nil
}
