package handlers

import (
	"gridweather/internal/analysis"
	"gridweather/internal/api/models"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

func correlationResponse(rep *pipeline.CorrelationReport) models.CorrelationResponse {
	m, r := rep.Merged, rep.Result
	return models.CorrelationResponse{
		Meta:               models.Meta{Sources: rep.Provenance},
		PrimaryName:        m.PrimaryName,
		SecondaryName:      m.SecondaryName,
		Lag:                r.Lag,
		Window:             r.Window.Size,
		Center:             r.Window.Center,
		WindowCorrelation:  models.Float(r.WindowCorrelation),
		OverallCorrelation: models.Float(r.OverallCorrelation),
		PrimaryRange:       r.PrimaryRange,
		SecondaryRange:     r.SecondaryRange,
		Times:              m.Times,
		Primary:            models.Floats(m.Primary),
		Secondary:          models.Floats(m.Secondary),
		SecondaryLagged:    models.Floats(r.SecondaryLagged),
		Rolling:            models.Floats(r.Rolling),
	}
}

func lagScanResponse(rep *pipeline.LagScanReport) models.LagScanResponse {
	resp := models.LagScanResponse{
		Meta:   models.Meta{Sources: rep.Provenance},
		Window: rep.Window.Size,
		Center: rep.Window.Center,
		Rows:   rep.Rows,
		Scores: make([]models.LagScore, len(rep.Scores)),
	}
	for i, s := range rep.Scores {
		resp.Scores[i] = models.LagScore{
			Rank:        i + 1,
			Lag:         s.Lag,
			Correlation: models.Float(s.Correlation),
			Pairs:       s.Pairs,
		}
	}
	if _, ok := rep.Best(); ok {
		best := resp.Scores[0]
		resp.Best = &best
	}
	return resp
}

func outlierResponse(rep *pipeline.OutlierReport) models.OutlierResponse {
	r := rep.Result
	return models.OutlierResponse{
		Meta:     models.Meta{Sources: rep.Provenance},
		Variable: rep.Series.Name,
		Limits: models.ControlLimits{
			Median:    r.Limits.Median,
			RobustStd: r.Limits.RobustStd,
			Upper:     r.Limits.Upper,
			Lower:     r.Limits.Lower,
		},
		Count:      r.Count,
		Filled:     rep.Filled,
		Indices:    nonNil(r.OutlierIndices()),
		Times:      rep.Series.Times(),
		Values:     models.Floats(rep.Series.Values()),
		Residual:   models.Floats(r.Residual),
		UpperCurve: models.Floats(r.UpperCurve),
		LowerCurve: models.Floats(r.LowerCurve),
	}
}

func anomalyResponse(rep *pipeline.AnomalyReport) models.AnomalyResponse {
	r := rep.Result
	return models.AnomalyResponse{
		Meta:      models.Meta{Sources: rep.Provenance},
		Variable:  rep.Series.Name,
		Neighbors: r.Neighbors,
		Threshold: models.Float(r.Threshold),
		Count:     r.Count,
		Filled:    rep.Filled,
		Indices:   nonNil(r.AnomalyIndices()),
		Times:     rep.Series.Times(),
		Values:    models.Floats(rep.Series.Values()),
		Scores:    models.Floats(r.Scores),
	}
}

func decompositionResponse(rep *pipeline.DecompositionReport) models.DecompositionResponse {
	r := rep.Result
	return models.DecompositionResponse{
		Meta:     models.Meta{Sources: rep.Provenance},
		Series:   rep.Series.Name,
		Filled:   rep.Filled,
		Times:    rep.Series.Times(),
		Observed: models.Floats(r.Observed),
		Trend:    models.Floats(r.Trend),
		Seasonal: models.Floats(r.Seasonal),
		Residual: models.Floats(r.Residual),
	}
}

func spectrogramResponse(rep *pipeline.SpectrogramReport) models.SpectrogramResponse {
	r := rep.Result
	resp := models.SpectrogramResponse{
		Meta:        models.Meta{Sources: rep.Provenance},
		Series:      rep.Series.Name,
		Filled:      rep.Filled,
		Frequencies: models.Floats(r.Frequencies),
		Times:       models.Floats(r.Times),
		DB:          make([][]models.Float, len(r.DB)),
		DBMin:       models.Float(r.DBMin),
		DBMax:       models.Float(r.DBMax),
	}
	if len(rep.Series.Points) > 0 {
		resp.Start = rep.Series.Points[0].Time
	}
	for i, row := range r.DB {
		resp.DB[i] = models.Floats(row)
	}
	return resp
}

func snowDriftResponse(rep *pipeline.SnowDriftReport) models.SnowDriftResponse {
	r := rep.Result
	resp := models.SnowDriftResponse{
		Meta:         models.Meta{Sources: rep.Provenance},
		Latitude:     rep.Latitude,
		Longitude:    rep.Longitude,
		Seasons:      r.Seasons,
		MeanQt:       r.MeanQt,
		MeanQtTonnes: r.MeanQt / 1000,
		WindRose:     make([]models.SectorValue, analysis.SectorCount),
	}
	for i, v := range r.MeanSectorsTonnes() {
		resp.WindRose[i] = models.SectorValue{Sector: analysis.SectorNames[i], Tonnes: v}
	}
	return resp
}

func forecastResponse(rep *pipeline.ForecastReport, p model.ForecastParams) models.ForecastResponse {
	r := rep.Result
	return models.ForecastResponse{
		Meta:          models.Meta{Sources: rep.Provenance},
		Series:        rep.Series.Name,
		Filled:        rep.Filled,
		Order:         [3]int{p.P, p.D, p.Q},
		SeasonalOrder: [4]int{p.SP, p.SD, p.SQ, p.Period},
		Confidence:    p.Confidence,
		AIC:           models.Float(r.AIC),
		BIC:           models.Float(r.BIC),
		Variance:      models.Float(r.Variance),
		TrainTimes:    rep.Series.Times(),
		Train:         models.Floats(rep.Series.Values()),
		Times:         rep.Times,
		Forecast:      models.Floats(r.Forecast),
		Lower:         models.Floats(r.Lower),
		Upper:         models.Floats(r.Upper),
	}
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
