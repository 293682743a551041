package model

import (
	"math"
	"sort"
	"time"
)

// Point is one hourly observation. A missing value is NaN.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// TimeSeries is an ordered sequence of hourly observations.
// Gaps are absent points, not zeros.
type TimeSeries struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

func (s TimeSeries) Len() int {
	return len(s.Points)
}

// Values returns a copy of the observation values in order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Times returns a copy of the timestamps in order.
func (s TimeSeries) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Sorted returns a copy ordered by timestamp. Equal timestamps keep their input order.
func (s TimeSeries) Sorted() TimeSeries {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Time.Before(pts[j].Time)
	})
	return TimeSeries{Name: s.Name, Points: pts}
}

// Missing counts NaN values.
func (s TimeSeries) Missing() int {
	n := 0
	for _, p := range s.Points {
		if math.IsNaN(p.Value) {
			n++
		}
	}
	return n
}

// NewSeries zips timestamps and values into a TimeSeries.
// Extra entries in the longer slice are ignored.
func NewSeries(name string, times []time.Time, values []float64) TimeSeries {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = Point{Time: times[i], Value: values[i]}
	}
	return TimeSeries{Name: name, Points: pts}
}
