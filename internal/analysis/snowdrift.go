package analysis

import (
	"fmt"
	"math"
	"time"

	"gridweather/internal/model"
)

const (
	// SectorCount is the number of wind-rose sectors (22.5° each).
	SectorCount = 16
	// transportDivisor converts Σ u^3.8·dt into kg/m (Tabler, 2003).
	transportDivisor  = 233847.0
	transportExponent = 3.8
	// snowTemperature is the air temperature (°C) below which precipitation
	// counts as snowfall water equivalent.
	snowTemperature = 1.0
	hourSeconds     = 3600.0
)

// SectorNames labels the wind-rose sectors clockwise from north.
var SectorNames = [SectorCount]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// HourlyWeather is one hour of the variables the snow drift model needs.
// Units: °C, mm, m/s, degrees.
type HourlyWeather struct {
	Time          time.Time
	Temperature   float64
	Precipitation float64
	WindSpeed     float64
	WindDirection float64
}

// Transport is the Tabler (2003) snow transport breakdown of one season.
// Units:
// - Qupot, Qspot, Qinf, Qt: kg/m
// - Swe, Srwe: mm water equivalent
type Transport struct {
	Qupot   float64       `json:"qupot"`
	Qspot   float64       `json:"qspot"`
	Swe     float64       `json:"swe"`
	Srwe    float64       `json:"srwe"`
	Qinf    float64       `json:"qinf"`
	Qt      float64       `json:"qt"`
	Control model.Control `json:"control"`
}

// SeasonTransport is the result for the season starting July 1 of StartYear.
type SeasonTransport struct {
	Season    string               `json:"season"`
	StartYear int                  `json:"start_year"`
	Hours     int                  `json:"hours"`
	Transport Transport            `json:"transport"`
	Sectors   [SectorCount]float64 `json:"sectors"`
}

// SnowDriftResult aggregates several seasons.
type SnowDriftResult struct {
	Seasons []SeasonTransport `json:"seasons"`
	// MeanQt is the mean seasonal Qt in kg/m.
	MeanQt float64 `json:"mean_qt"`
	// MeanSectors is the mean per-sector transport in kg/m.
	MeanSectors [SectorCount]float64 `json:"mean_sectors"`
}

// MeanSectorsTonnes returns MeanSectors in tonnes/m, the wind-rose unit.
func (r *SnowDriftResult) MeanSectorsTonnes() [SectorCount]float64 {
	var out [SectorCount]float64
	for i, v := range r.MeanSectors {
		out[i] = v / 1000
	}
	return out
}

// SectorIndex maps a wind direction in degrees to its 16-sector bin,
// with sector 0 centred on north.
func SectorIndex(direction float64) int {
	d := math.Mod(direction+11.25, 360)
	if d < 0 {
		d += 360
	}
	return int(math.Floor(d/22.5)) % SectorCount
}

// PotentialTransport is Qupot: Σ u^3.8·dt / 233847 over hourly wind speeds.
// Missing speeds are skipped.
func PotentialTransport(speeds []float64, dt float64) float64 {
	var sum float64
	for _, u := range speeds {
		if math.IsNaN(u) {
			continue
		}
		sum += math.Pow(u, transportExponent) * dt
	}
	return sum / transportDivisor
}

// SnowTransport applies Tabler's model to one season's snowfall water
// equivalent swe (mm) and hourly wind speeds.
func SnowTransport(p model.SnowDriftParams, swe float64, speeds []float64, dt float64) Transport {
	t := Transport{
		Qupot: PotentialTransport(speeds, dt),
		Qspot: 0.5 * p.TransportDistance * swe,
		Swe:   swe,
		Srwe:  p.Theta * swe,
	}
	t.Control = model.ControlFromTransport(t.Qupot, t.Qspot)
	if t.Control == model.SnowfallControlled {
		t.Qinf = 0.5 * p.TransportDistance * t.Srwe
	} else {
		t.Qinf = t.Qupot
	}
	t.Qt = t.Qinf * (1 - math.Pow(0.14, p.Fetch/p.TransportDistance))
	return t
}

// SectorTransport splits the potential transport by wind direction.
// Hours with a missing speed or direction are skipped.
func SectorTransport(speeds, directions []float64, dt float64) [SectorCount]float64 {
	var out [SectorCount]float64
	n := minInt(len(speeds), len(directions))
	for i := 0; i < n; i++ {
		u, d := speeds[i], directions[i]
		if math.IsNaN(u) || math.IsNaN(d) {
			continue
		}
		out[SectorIndex(d)] += math.Pow(u, transportExponent) * dt / transportDivisor
	}
	return out
}

// SnowWaterEquivalent sums precipitation over hours colder than 1 °C.
func SnowWaterEquivalent(hours []HourlyWeather) float64 {
	var swe float64
	for _, h := range hours {
		if math.IsNaN(h.Precipitation) || math.IsNaN(h.Temperature) {
			continue
		}
		if h.Temperature < snowTemperature {
			swe += h.Precipitation
		}
	}
	return swe
}

// SeasonBounds returns the UTC interval [July 1 startYear, July 1 startYear+1).
func SeasonBounds(startYear int) (time.Time, time.Time) {
	start := time.Date(startYear, time.July, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// SeasonalSnowDrift evaluates every season from fromYear to toYear inclusive.
// Seasons without any hours are skipped; if none remain the result is
// ErrInsufficientData.
func SeasonalSnowDrift(hours []HourlyWeather, p model.SnowDriftParams, fromYear, toYear int) (*SnowDriftResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if toYear < fromYear {
		return nil, fmt.Errorf("end year %d before start year %d", toYear, fromYear)
	}

	res := &SnowDriftResult{}
	for year := fromYear; year <= toYear; year++ {
		start, end := SeasonBounds(year)
		var season []HourlyWeather
		for _, h := range hours {
			t := h.Time.UTC()
			if !t.Before(start) && t.Before(end) {
				season = append(season, h)
			}
		}
		if len(season) == 0 {
			continue
		}
		speeds := make([]float64, len(season))
		dirs := make([]float64, len(season))
		for i, h := range season {
			speeds[i] = h.WindSpeed
			dirs[i] = h.WindDirection
		}
		res.Seasons = append(res.Seasons, SeasonTransport{
			Season:    fmt.Sprintf("%d-%d", year, year+1),
			StartYear: year,
			Hours:     len(season),
			Transport: SnowTransport(p, SnowWaterEquivalent(season), speeds, hourSeconds),
			Sectors:   SectorTransport(speeds, dirs, hourSeconds),
		})
	}
	if len(res.Seasons) == 0 {
		return nil, fmt.Errorf("no weather hours in seasons %d-%d: %w", fromYear, toYear+1, model.ErrInsufficientData)
	}

	for _, s := range res.Seasons {
		res.MeanQt += s.Transport.Qt
		for i, v := range s.Sectors {
			res.MeanSectors[i] += v
		}
	}
	k := float64(len(res.Seasons))
	res.MeanQt /= k
	for i := range res.MeanSectors {
		res.MeanSectors[i] /= k
	}
	return res, nil
}
