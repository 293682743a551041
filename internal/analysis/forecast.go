package analysis

import (
	"fmt"

	"github.com/sartorproj/goarima/sarima"
	"github.com/sartorproj/goarima/timeseries"

	"gridweather/internal/model"
)

// ForecastResult is a fitted SARIMA model's forecast with its prediction band.
type ForecastResult struct {
	Forecast []float64
	Lower    []float64
	Upper    []float64
	// Fitted are the in-sample one-step predictions on the differenced scale.
	Fitted []float64

	AIC      float64
	BIC      float64
	Variance float64
}

// Forecast fits SARIMA(p,d,q)x(P,D,Q,s) by conditional sum of squares to
// values and predicts Horizon steps past the last sample. values must be
// complete and evenly spaced.
func Forecast(values []float64, p model.ForecastParams) (*ForecastResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if CountMissing(values) > 0 {
		return nil, fmt.Errorf("forecast input has %d missing values", CountMissing(values))
	}
	need := p.P + p.Q + p.D + (p.SP+p.SD+p.SQ)*p.Period + 20
	if len(values) < need {
		return nil, fmt.Errorf("%d samples for order needing %d: %w", len(values), need, model.ErrInsufficientData)
	}

	m := sarima.New(p.P, p.D, p.Q, p.SP, p.SD, p.SQ, p.Period)
	if err := m.Fit(timeseries.New(values)); err != nil {
		return nil, fmt.Errorf("fit sarima: %w", err)
	}
	fc, lo, hi, err := m.PredictWithInterval(p.Horizon, p.Confidence)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return &ForecastResult{
		Forecast: fc,
		Lower:    lo,
		Upper:    hi,
		Fitted:   m.FittedValues(),
		AIC:      m.AIC,
		BIC:      m.BIC,
		Variance: m.Variance,
	}, nil
}
