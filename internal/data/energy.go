package data

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gridweather/internal/model"
)

// EnergyFilter selects the records summed into one hourly series.
// An empty Group sums every group; a zero Year keeps every year.
type EnergyFilter struct {
	Kind  model.EnergyKind
	Area  string
	Group string
	Year  int
}

// Name labels the resulting series, e.g. "production NO1 hydro 2021".
func (f EnergyFilter) Name() string {
	parts := []string{string(f.Kind), f.Area}
	if f.Group != "" {
		parts = append(parts, f.Group)
	}
	if f.Year != 0 {
		parts = append(parts, strconv.Itoa(f.Year))
	}
	return strings.Join(parts, " ")
}

// ParseEnergyRecords converts raw documents into typed records. Documents
// missing a required field are an error.
func ParseEnergyRecords(records []model.Record, kind model.EnergyKind) ([]model.EnergyRecord, error) {
	groupField := kind.GroupField()
	out := make([]model.EnergyRecord, 0, len(records))
	for i, r := range records {
		area, _ := r["pricearea"].(string)
		if area == "" {
			return nil, fmt.Errorf("record %d: missing pricearea", i)
		}
		group, _ := r[groupField].(string)
		ts, err := parseTime(r["starttime"])
		if err != nil {
			return nil, fmt.Errorf("record %d: starttime: %w", i, err)
		}
		q, err := parseFloat(r["quantitykwh"])
		if err != nil {
			return nil, fmt.Errorf("record %d: quantitykwh: %w", i, err)
		}
		out = append(out, model.EnergyRecord{
			PriceArea:   area,
			Group:       group,
			StartTime:   ts,
			QuantityKWh: q,
		})
	}
	return out, nil
}

// EnergySeries filters records by f and sums quantitykwh per starttime,
// returning the hourly totals in ascending time order. No match yields an
// empty series.
func EnergySeries(records []model.EnergyRecord, f EnergyFilter) model.TimeSeries {
	sums := make(map[int64]float64)
	for _, r := range records {
		if f.Area != "" && !strings.EqualFold(r.PriceArea, f.Area) {
			continue
		}
		if f.Group != "" && !strings.EqualFold(r.Group, f.Group) {
			continue
		}
		t := r.StartTime.UTC()
		if f.Year != 0 && t.Year() != f.Year {
			continue
		}
		sums[t.Unix()] += r.QuantityKWh
	}

	keys := make([]int64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	pts := make([]model.Point, len(keys))
	for i, k := range keys {
		pts[i] = model.Point{Time: time.Unix(k, 0).UTC(), Value: sums[k]}
	}
	return model.TimeSeries{Name: f.Name(), Points: pts}
}

// GroupShare is one group's part of an area's total.
type GroupShare struct {
	Group    string  `json:"group"`
	TotalKWh float64 `json:"total_kwh"`
	Share    float64 `json:"share"`
}

// GroupShares sums quantitykwh per group for one price area, ordered by
// descending total. A zero year keeps every year. Shares are 0 when the
// area total is 0.
func GroupShares(records []model.EnergyRecord, area string, year int) []GroupShare {
	totals := make(map[string]float64)
	var all float64
	for _, r := range records {
		if !strings.EqualFold(r.PriceArea, area) {
			continue
		}
		if year != 0 && r.StartTime.UTC().Year() != year {
			continue
		}
		totals[r.Group] += r.QuantityKWh
		all += r.QuantityKWh
	}

	out := make([]GroupShare, 0, len(totals))
	for g, v := range totals {
		s := GroupShare{Group: g, TotalKWh: v}
		if all != 0 {
			s.Share = v / all
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalKWh != out[j].TotalKWh {
			return out[i].TotalKWh > out[j].TotalKWh
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// MonthlyTotal is the summed quantity of one group in one calendar month.
type MonthlyTotal struct {
	Month    time.Time `json:"month"` // first instant of the month, UTC
	Group    string    `json:"group"`
	TotalKWh float64   `json:"total_kwh"`
	Hours    int       `json:"hours"`
}

// MonthlyTotals sums quantitykwh per (month, group) for one price area,
// ordered by month then group. An empty groups list keeps every group.
func MonthlyTotals(records []model.EnergyRecord, area string, groups []string) []MonthlyTotal {
	keep := make(map[string]bool, len(groups))
	for _, g := range groups {
		keep[strings.ToLower(g)] = true
	}

	type key struct {
		month int64
		group string
	}
	sums := make(map[key]*MonthlyTotal)
	for _, r := range records {
		if !strings.EqualFold(r.PriceArea, area) {
			continue
		}
		if len(keep) > 0 && !keep[strings.ToLower(r.Group)] {
			continue
		}
		t := r.StartTime.UTC()
		m := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		k := key{m.Unix(), r.Group}
		mt, ok := sums[k]
		if !ok {
			mt = &MonthlyTotal{Month: m, Group: r.Group}
			sums[k] = mt
		}
		mt.TotalKWh += r.QuantityKWh
		mt.Hours++
	}

	out := make([]MonthlyTotal, 0, len(sums))
	for _, mt := range sums {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// AreaMean is the mean hourly quantity of one price area.
type AreaMean struct {
	Area    string  `json:"area"`
	MeanKWh float64 `json:"mean_kwh"`
	Records int     `json:"records"`
}

// AreaMeans averages quantitykwh per price area over the records of group
// with starttime in [from, to). A zero bound is open. Areas are ordered by ID.
func AreaMeans(records []model.EnergyRecord, group string, from, to time.Time) []AreaMean {
	type acc struct {
		sum float64
		n   int
	}
	byArea := make(map[string]*acc)
	for _, r := range records {
		if group != "" && !strings.EqualFold(r.Group, group) {
			continue
		}
		t := r.StartTime.UTC()
		if !from.IsZero() && t.Before(from) {
			continue
		}
		if !to.IsZero() && !t.Before(to) {
			continue
		}
		id := strings.ToUpper(r.PriceArea)
		a, ok := byArea[id]
		if !ok {
			a = &acc{}
			byArea[id] = a
		}
		a.sum += r.QuantityKWh
		a.n++
	}

	out := make([]AreaMean, 0, len(byArea))
	for id, a := range byArea {
		out = append(out, AreaMean{Area: id, MeanKWh: a.sum / float64(a.n), Records: a.n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Area < out[j].Area })
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

func parseTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised time %q", x)
	case nil:
		return time.Time{}, fmt.Errorf("missing")
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T", v)
	}
}

func parseFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	case nil:
		return 0, fmt.Errorf("missing")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
