package model

import (
	"errors"
	"fmt"
)

// Parameter ranges accepted from the UI layer. Units:
// - Lag, WindowSize: hours
// - NumStd: robust standard deviations
// - Contamination: fraction of points expected to be outliers
const (
	MinLag           = -168
	MaxLag           = 168
	MinWindowSize    = 24
	MaxWindowSize    = 720
	MinFreqCutoff    = 1
	MaxFreqCutoff    = 500
	MinNumStd        = 1.0
	MaxNumStd        = 5.0
	MinNeighbors     = 5
	MaxNeighbors     = 50
	MinContamination = 0.001
	MaxContamination = 0.1
)

// DefaultCenter is the mid-year hour of a 8760-row year.
const DefaultCenter = 4380

// CorrelationParams configures the sliding-window correlation.
type CorrelationParams struct {
	Lag        int
	WindowSize int
	Center     int
}

func (p CorrelationParams) Validate() error {
	if p.Lag < MinLag || p.Lag > MaxLag {
		return fmt.Errorf("lag must be in [%d, %d]", MinLag, MaxLag)
	}
	if p.WindowSize < MinWindowSize || p.WindowSize > MaxWindowSize {
		return fmt.Errorf("window must be in [%d, %d]", MinWindowSize, MaxWindowSize)
	}
	if p.Center < 0 {
		return errors.New("center must be >= 0")
	}
	return nil
}

// SPCParams configures the DCT high-pass statistical process control detector.
type SPCParams struct {
	FreqCutoff int
	NumStd     float64
}

func (p SPCParams) Validate() error {
	if p.FreqCutoff < MinFreqCutoff || p.FreqCutoff > MaxFreqCutoff {
		return fmt.Errorf("freq_cutoff must be in [%d, %d]", MinFreqCutoff, MaxFreqCutoff)
	}
	if p.NumStd < MinNumStd || p.NumStd > MaxNumStd {
		return fmt.Errorf("num_std must be in [%g, %g]", MinNumStd, MaxNumStd)
	}
	return nil
}

// LOFParams configures the local outlier factor detector.
type LOFParams struct {
	Neighbors     int
	Contamination float64
}

func (p LOFParams) Validate() error {
	if p.Neighbors < MinNeighbors || p.Neighbors > MaxNeighbors {
		return fmt.Errorf("n_neighbors must be in [%d, %d]", MinNeighbors, MaxNeighbors)
	}
	if p.Contamination < MinContamination || p.Contamination > MaxContamination {
		return fmt.Errorf("contamination must be in [%g, %g]", MinContamination, MaxContamination)
	}
	return nil
}

// STLParams configures the seasonal-trend decomposition. Seasonal and Trend
// are LOESS window lengths in samples and must be odd.
type STLParams struct {
	Period   int
	Seasonal int
	Trend    int
	Robust   bool
}

func (p STLParams) Validate() error {
	if p.Period < 2 {
		return errors.New("period must be >= 2")
	}
	if p.Seasonal < 3 || p.Seasonal%2 == 0 {
		return errors.New("seasonal must be an odd integer >= 3")
	}
	if p.Trend <= p.Period || p.Trend%2 == 0 {
		return errors.New("trend must be an odd integer > period")
	}
	return nil
}

// SpectrogramParams configures the short-time power spectrum.
type SpectrogramParams struct {
	SegmentLength int
	Overlap       int
}

func (p SpectrogramParams) Validate() error {
	if p.SegmentLength < 8 {
		return errors.New("segment_length must be >= 8")
	}
	if p.Overlap < 0 || p.Overlap >= p.SegmentLength {
		return errors.New("overlap must satisfy 0 <= overlap < segment_length")
	}
	return nil
}

// SnowDriftParams defines the Tabler (2003) site parameters.
// Units:
// - TransportDistance (T), Fetch (F): m
// - Theta: relocation coefficient, 0..1
type SnowDriftParams struct {
	TransportDistance float64
	Fetch             float64
	Theta             float64
}

// DefaultSnowDriftParams are the values used for open Norwegian terrain.
func DefaultSnowDriftParams() SnowDriftParams {
	return SnowDriftParams{TransportDistance: 3000, Fetch: 30000, Theta: 0.5}
}

func (p SnowDriftParams) Validate() error {
	if p.TransportDistance <= 0 {
		return errors.New("transport distance must be > 0")
	}
	if p.Fetch < 0 {
		return errors.New("fetch must be >= 0")
	}
	if p.Theta < 0 || p.Theta > 1 {
		return errors.New("theta must be in [0, 1]")
	}
	return nil
}

// Forecast ranges offered by the forecasting form.
const (
	MaxAROrder       = 5
	MaxDiffOrder     = 2
	MaxMAOrder       = 5
	MaxSeasonalOrder = 3
	MaxSeasonalDiff  = 2
	MaxPeriod        = 8760
	MaxHorizon       = 1000
)

// ForecastParams is a SARIMA (p,d,q)x(P,D,Q,s) order plus the forecast
// horizon in hours. Confidence is the prediction band level, e.g. 0.95.
type ForecastParams struct {
	P, D, Q    int
	SP, SD, SQ int
	Period     int
	Horizon    int
	Confidence float64
}

// DefaultForecastParams mirrors the form defaults: (1,1,1)x(1,1,1,24), one week.
func DefaultForecastParams() ForecastParams {
	return ForecastParams{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, Period: 24, Horizon: 168, Confidence: 0.95}
}

func (p ForecastParams) Validate() error {
	switch {
	case p.P < 0 || p.P > MaxAROrder:
		return fmt.Errorf("p must be in [0, %d]", MaxAROrder)
	case p.D < 0 || p.D > MaxDiffOrder:
		return fmt.Errorf("d must be in [0, %d]", MaxDiffOrder)
	case p.Q < 0 || p.Q > MaxMAOrder:
		return fmt.Errorf("q must be in [0, %d]", MaxMAOrder)
	case p.SP < 0 || p.SP > MaxSeasonalOrder:
		return fmt.Errorf("seasonal P must be in [0, %d]", MaxSeasonalOrder)
	case p.SD < 0 || p.SD > MaxSeasonalDiff:
		return fmt.Errorf("seasonal D must be in [0, %d]", MaxSeasonalDiff)
	case p.SQ < 0 || p.SQ > MaxSeasonalOrder:
		return fmt.Errorf("seasonal Q must be in [0, %d]", MaxSeasonalOrder)
	case p.Period < 1 || p.Period > MaxPeriod:
		return fmt.Errorf("seasonal period must be in [1, %d]", MaxPeriod)
	case p.Horizon < 1 || p.Horizon > MaxHorizon:
		return fmt.Errorf("horizon must be in [1, %d]", MaxHorizon)
	case !(p.Confidence > 0 && p.Confidence < 1):
		return errors.New("confidence must be in (0, 1)")
	}
	return nil
}
