package analysis

import (
	"fmt"
	"sort"
	"time"

	"gridweather/internal/model"
)

// MergedSeries is two series inner-joined on timestamp.
// Every row's timestamp is present in both inputs; rows are in ascending time order.
type MergedSeries struct {
	Times     []time.Time
	Primary   []float64
	Secondary []float64

	PrimaryName   string
	SecondaryName string
}

func (m *MergedSeries) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Times)
}

// Align inner-joins primary and secondary on timestamp. Instants are compared
// in UTC, so the same hour expressed in different zones matches. A timestamp
// repeated within one input keeps its first value.
func Align(primary, secondary model.TimeSeries) (*MergedSeries, error) {
	sec := make(map[int64]float64, len(secondary.Points))
	for _, p := range secondary.Points {
		k := p.Time.UnixNano()
		if _, dup := sec[k]; !dup {
			sec[k] = p.Value
		}
	}

	type row struct {
		t    time.Time
		p, s float64
	}
	seen := make(map[int64]bool, len(primary.Points))
	rows := make([]row, 0, len(primary.Points))
	for _, p := range primary.Points {
		k := p.Time.UnixNano()
		if seen[k] {
			continue
		}
		seen[k] = true
		s, ok := sec[k]
		if !ok {
			continue
		}
		rows = append(rows, row{t: p.Time.UTC(), p: p.Value, s: s})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("align %q with %q: %w", primary.Name, secondary.Name, model.ErrEmptyIntersection)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].t.Before(rows[j].t) })

	m := &MergedSeries{
		Times:         make([]time.Time, len(rows)),
		Primary:       make([]float64, len(rows)),
		Secondary:     make([]float64, len(rows)),
		PrimaryName:   primary.Name,
		SecondaryName: secondary.Name,
	}
	for i, r := range rows {
		m.Times[i] = r.t
		m.Primary[i] = r.p
		m.Secondary[i] = r.s
	}
	return m, nil
}
