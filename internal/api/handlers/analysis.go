package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gridweather/internal/api/models"
	"gridweather/internal/data"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

// Runner is the subset of *pipeline.Pipeline the handlers call.
type Runner interface {
	Correlation(ctx context.Context, req pipeline.CorrelationRequest) (*pipeline.CorrelationReport, error)
	LagScan(ctx context.Context, req pipeline.LagScanRequest) (*pipeline.LagScanReport, error)
	Outliers(ctx context.Context, req pipeline.OutlierRequest) (*pipeline.OutlierReport, error)
	Anomalies(ctx context.Context, req pipeline.AnomalyRequest) (*pipeline.AnomalyReport, error)
	Decomposition(ctx context.Context, req pipeline.DecompositionRequest) (*pipeline.DecompositionReport, error)
	Spectrogram(ctx context.Context, req pipeline.SpectrogramRequest) (*pipeline.SpectrogramReport, error)
	SnowDrift(ctx context.Context, req pipeline.SnowDriftRequest) (*pipeline.SnowDriftReport, error)
	Forecast(ctx context.Context, req pipeline.ForecastRequest) (*pipeline.ForecastReport, error)
	GroupShares(ctx context.Context, req pipeline.GroupSharesRequest) (*pipeline.GroupSharesReport, error)
	MonthlyTotals(ctx context.Context, req pipeline.MonthlyRequest) (*pipeline.MonthlyReport, error)
	AreaMeans(ctx context.Context, req pipeline.AreaMeansRequest) (*pipeline.AreaMeansReport, error)
}

// AnalysisHandler runs analyses and keeps each response under a generated
// ID for later retrieval.
type AnalysisHandler struct {
	runner  Runner
	results *data.Cache[any]
	log     *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler. A nil results cache
// disables GET /results/:id.
func NewAnalysisHandler(runner Runner, results *data.Cache[any], log *zap.Logger) *AnalysisHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisHandler{runner: runner, results: results, log: log}
}

func newID() string {
	return uuid.NewString()
}

// Correlation handles POST /api/v1/correlation
func (h *AnalysisHandler) Correlation(c *gin.Context) {
	var req models.CorrelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	rep, err := h.runner.Correlation(c.Request.Context(), pipeline.CorrelationRequest{
		Energy:   energyFilter(req.Energy),
		Variable: req.Variable,
		Params: model.CorrelationParams{
			Lag:        req.Lag,
			WindowSize: req.Window,
			Center:     req.Center,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := correlationResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// LagScan handles POST /api/v1/correlation/lags
func (h *AnalysisHandler) LagScan(c *gin.Context) {
	var req models.LagScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	minLag, maxLag := model.MinLag, model.MaxLag
	if req.MinLag != nil {
		minLag = *req.MinLag
	}
	if req.MaxLag != nil {
		maxLag = *req.MaxLag
	}
	step := req.Step
	if step == 0 {
		step = 1
	}

	rep, err := h.runner.LagScan(c.Request.Context(), pipeline.LagScanRequest{
		Energy:     energyFilter(req.Energy),
		Variable:   req.Variable,
		WindowSize: req.Window,
		Center:     req.Center,
		MinLag:     minLag,
		MaxLag:     maxLag,
		Step:       step,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := lagScanResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// Outliers handles POST /api/v1/outliers
func (h *AnalysisHandler) Outliers(c *gin.Context) {
	var req models.OutlierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.NumStd == 0 {
		req.NumStd = 3
	}

	rep, err := h.runner.Outliers(c.Request.Context(), pipeline.OutlierRequest{
		Weather: pipeline.WeatherSelector{Area: req.Area, Year: req.Year, Variable: req.Variable},
		Params:  model.SPCParams{FreqCutoff: req.FreqCutoff, NumStd: req.NumStd},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := outlierResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// Anomalies handles POST /api/v1/anomalies
func (h *AnalysisHandler) Anomalies(c *gin.Context) {
	var req models.AnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.NNeighbors == 0 {
		req.NNeighbors = 20
	}
	if req.Contamination == 0 {
		req.Contamination = 0.01
	}

	rep, err := h.runner.Anomalies(c.Request.Context(), pipeline.AnomalyRequest{
		Weather: pipeline.WeatherSelector{Area: req.Area, Year: req.Year, Variable: req.Variable},
		Params:  model.LOFParams{Neighbors: req.NNeighbors, Contamination: req.Contamination},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := anomalyResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// Decomposition handles POST /api/v1/decomposition
func (h *AnalysisHandler) Decomposition(c *gin.Context) {
	var req models.DecompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	params := model.STLParams{Period: 24, Seasonal: 7, Trend: 169, Robust: true}
	if req.Period != 0 {
		params.Period = req.Period
	}
	if req.Seasonal != 0 {
		params.Seasonal = req.Seasonal
	}
	if req.Trend != 0 {
		params.Trend = req.Trend
	}
	if req.Robust != nil {
		params.Robust = *req.Robust
	}

	rep, err := h.runner.Decomposition(c.Request.Context(), pipeline.DecompositionRequest{
		Energy: energyFilter(req.Energy),
		Params: params,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := decompositionResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// Spectrogram handles POST /api/v1/spectrogram
func (h *AnalysisHandler) Spectrogram(c *gin.Context) {
	var req models.SpectrogramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	params := model.SpectrogramParams{SegmentLength: req.SegmentLength}
	if params.SegmentLength == 0 {
		params.SegmentLength = 256
	}
	params.Overlap = params.SegmentLength / 2
	if req.Overlap != nil {
		params.Overlap = *req.Overlap
	}

	rep, err := h.runner.Spectrogram(c.Request.Context(), pipeline.SpectrogramRequest{
		Energy: energyFilter(req.Energy),
		Params: params,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := spectrogramResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// SnowDrift handles POST /api/v1/snowdrift
func (h *AnalysisHandler) SnowDrift(c *gin.Context) {
	var req models.SnowDriftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	params := model.DefaultSnowDriftParams()
	if req.TransportDistance != 0 {
		params.TransportDistance = req.TransportDistance
	}
	if req.Fetch != 0 {
		params.Fetch = req.Fetch
	}
	if req.Theta != nil {
		params.Theta = *req.Theta
	}
	sreq := pipeline.SnowDriftRequest{
		Area:     req.Area,
		FromYear: req.FromYear,
		ToYear:   req.ToYear,
		Params:   params,
	}
	if req.Latitude != nil && req.Longitude != nil {
		sreq.Latitude, sreq.Longitude = *req.Latitude, *req.Longitude
	}

	rep, err := h.runner.SnowDrift(c.Request.Context(), sreq)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := snowDriftResponse(rep)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// Forecast handles POST /api/v1/forecast
func (h *AnalysisHandler) Forecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	start, err := parseDay("train_start", req.TrainStart)
	if err != nil {
		invalidRequest(c, err)
		return
	}
	end, err := parseDay("train_end", req.TrainEnd)
	if err != nil {
		invalidRequest(c, err)
		return
	}

	params := model.DefaultForecastParams()
	if len(req.Order) == 3 {
		params.P, params.D, params.Q = req.Order[0], req.Order[1], req.Order[2]
	}
	if len(req.SeasonalOrder) == 4 {
		params.SP, params.SD, params.SQ, params.Period = req.SeasonalOrder[0], req.SeasonalOrder[1], req.SeasonalOrder[2], req.SeasonalOrder[3]
	}
	if req.Horizon != 0 {
		params.Horizon = req.Horizon
	}
	if req.Confidence != 0 {
		params.Confidence = req.Confidence
	}

	rep, err := h.runner.Forecast(c.Request.Context(), pipeline.ForecastRequest{
		Energy:     data.EnergyFilter{Kind: model.EnergyKind(req.Kind), Area: req.Area, Group: req.Group},
		TrainStart: start,
		TrainEnd:   end,
		Params:     params,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := forecastResponse(rep, params)
	resp.ID = newID()
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// GetResult handles GET /api/v1/results/:id
func (h *AnalysisHandler) GetResult(c *gin.Context) {
	id := c.Param("id")
	v, ok := h.results.Get(id)
	if !ok {
		abortWith(c, http.StatusNotFound, "NOT_FOUND", "result "+id+" not found or expired", nil)
		return
	}
	c.JSON(http.StatusOK, v)
}

// parseDay reads a YYYY-MM-DD date. An empty value is the zero time.
func parseDay(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", field, v)
	}
	return t, nil
}

func energyFilter(s models.EnergySelection) data.EnergyFilter {
	return data.EnergyFilter{
		Kind:  model.EnergyKind(s.Kind),
		Area:  s.Area,
		Group: s.Group,
		Year:  s.Year,
	}
}
