package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gridweather/internal/data"
	"gridweather/internal/model"
)

// GroupSharesRequest splits one price area's total by production or
// consumption group. A zero Year sums every year.
type GroupSharesRequest struct {
	Kind model.EnergyKind
	Area string
	Year int
}

type GroupSharesReport struct {
	Area       string
	Year       int
	Shares     []data.GroupShare
	Provenance []Provenance
}

func (p *Pipeline) GroupShares(ctx context.Context, req GroupSharesRequest) (*GroupSharesReport, error) {
	if req.Area == "" {
		return nil, invalid(fmt.Errorf("area is required"))
	}
	if _, err := p.Area(req.Area); err != nil {
		return nil, err
	}
	recs, prov, err := p.energyRecords(ctx, req.Kind)
	if err != nil {
		return nil, err
	}

	rep := &GroupSharesReport{Area: strings.ToUpper(req.Area), Year: req.Year, Provenance: []Provenance{prov}}
	err = p.timed("group_shares", func() error {
		rep.Shares = data.GroupShares(recs, req.Area, req.Year)
		if len(rep.Shares) == 0 {
			return fmt.Errorf("no %s records for %s: %w", req.Kind, rep.Area, model.ErrInsufficientData)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// MonthlyRequest totals one price area per calendar month and group. An
// empty Groups keeps every group.
type MonthlyRequest struct {
	Kind   model.EnergyKind
	Area   string
	Groups []string
}

type MonthlyReport struct {
	Area       string
	Totals     []data.MonthlyTotal
	Provenance []Provenance
}

func (p *Pipeline) MonthlyTotals(ctx context.Context, req MonthlyRequest) (*MonthlyReport, error) {
	if req.Area == "" {
		return nil, invalid(fmt.Errorf("area is required"))
	}
	if _, err := p.Area(req.Area); err != nil {
		return nil, err
	}
	recs, prov, err := p.energyRecords(ctx, req.Kind)
	if err != nil {
		return nil, err
	}

	rep := &MonthlyReport{Area: strings.ToUpper(req.Area), Provenance: []Provenance{prov}}
	err = p.timed("monthly_totals", func() error {
		rep.Totals = data.MonthlyTotals(recs, req.Area, req.Groups)
		if len(rep.Totals) == 0 {
			return fmt.Errorf("no %s records for %s: %w", req.Kind, rep.Area, model.ErrInsufficientData)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// AreaMeansRequest averages one group's hourly records per price area over
// calendar days From through To. A zero bound leaves that side open and an
// empty Group averages every group.
type AreaMeansRequest struct {
	Kind  model.EnergyKind
	Group string
	From  time.Time
	To    time.Time
}

type AreaMeansReport struct {
	Group      string
	From       time.Time
	To         time.Time
	Means      []data.AreaMean
	Provenance []Provenance
}

func (p *Pipeline) AreaMeans(ctx context.Context, req AreaMeansRequest) (*AreaMeansReport, error) {
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, invalid(fmt.Errorf("end %s is before start %s",
			req.To.Format(time.DateOnly), req.From.Format(time.DateOnly)))
	}
	recs, prov, err := p.energyRecords(ctx, req.Kind)
	if err != nil {
		return nil, err
	}

	var end time.Time
	if !req.To.IsZero() {
		end = req.To.Truncate(24 * time.Hour).Add(24 * time.Hour)
	}
	rep := &AreaMeansReport{Group: req.Group, From: req.From, To: req.To, Provenance: []Provenance{prov}}
	err = p.timed("area_means", func() error {
		rep.Means = data.AreaMeans(recs, req.Group, req.From, end)
		if len(rep.Means) == 0 {
			return fmt.Errorf("no %s records in range: %w", req.Kind, model.ErrInsufficientData)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (p *Pipeline) energyRecords(ctx context.Context, kind model.EnergyKind) ([]model.EnergyRecord, Provenance, error) {
	if !kind.Valid() {
		return nil, Provenance{}, fmt.Errorf("%w: energy kind %q", ErrInvalidParams, kind)
	}
	if p.Energy == nil {
		return nil, Provenance{}, errors.New("no energy source configured")
	}
	fe, err := p.Energy.Records(ctx, kind)
	if err != nil {
		return nil, Provenance{}, err
	}
	return fe.Value, p.provenance("energy", string(kind), fe.FetchedAt, fe.Cached, fe.Stale), nil
}
