package models

import (
	"math"
	"strconv"
	"time"

	"gridweather/internal/analysis"
	"gridweather/internal/data"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

// Float encodes NaN and ±Inf as null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// Floats converts a slice for JSON output.
func Floats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// Meta is shared by every analysis response.
type Meta struct {
	ID      string                `json:"id"`
	Sources []pipeline.Provenance `json:"sources"`
}

// CorrelationResponse represents the result of a correlation run
type CorrelationResponse struct {
	Meta
	PrimaryName        string              `json:"primary_name"`
	SecondaryName      string              `json:"secondary_name"`
	Lag                int                 `json:"lag"`
	Window             int                 `json:"window"`
	Center             int                 `json:"center"`
	WindowCorrelation  Float               `json:"window_correlation"`
	OverallCorrelation Float               `json:"overall_correlation"`
	PrimaryRange       analysis.IndexRange `json:"primary_range"`
	SecondaryRange     analysis.IndexRange `json:"secondary_range"`
	Times              []time.Time         `json:"times"`
	Primary            []Float             `json:"primary"`
	Secondary          []Float             `json:"secondary"`
	SecondaryLagged    []Float             `json:"secondary_lagged"`
	Rolling            []Float             `json:"rolling"`
}

// LagScore is one lag of a lag scan
type LagScore struct {
	Rank        int   `json:"rank"`
	Lag         int   `json:"lag"`
	Correlation Float `json:"correlation"`
	Pairs       int   `json:"pairs"`
}

// LagScanResponse lists lags by descending |r|
type LagScanResponse struct {
	Meta
	Window int        `json:"window"`
	Center int        `json:"center"`
	Rows   int        `json:"rows"`
	Best   *LagScore  `json:"best,omitempty"`
	Scores []LagScore `json:"scores"`
}

// ControlLimits are the SPC limits on the residual
type ControlLimits struct {
	Median    float64 `json:"median"`
	RobustStd float64 `json:"robust_std"`
	Upper     float64 `json:"upper"`
	Lower     float64 `json:"lower"`
}

// OutlierResponse represents the result of the SPC detector
type OutlierResponse struct {
	Meta
	Variable   string        `json:"variable"`
	Limits     ControlLimits `json:"limits"`
	Count      int           `json:"count"`
	Filled     int           `json:"filled"`
	Indices    []int         `json:"indices"`
	Times      []time.Time   `json:"times"`
	Values     []Float       `json:"values"`
	Residual   []Float       `json:"residual"`
	UpperCurve []Float       `json:"upper_curve"`
	LowerCurve []Float       `json:"lower_curve"`
}

// AnomalyResponse represents the result of the LOF detector
type AnomalyResponse struct {
	Meta
	Variable  string      `json:"variable"`
	Neighbors int         `json:"n_neighbors"`
	Threshold Float       `json:"threshold"`
	Count     int         `json:"count"`
	Filled    int         `json:"filled"`
	Indices   []int       `json:"indices"`
	Times     []time.Time `json:"times"`
	Values    []Float     `json:"values"`
	Scores    []Float     `json:"scores"`
}

// DecompositionResponse holds the STL components
type DecompositionResponse struct {
	Meta
	Series   string      `json:"series"`
	Filled   int         `json:"filled"`
	Times    []time.Time `json:"times"`
	Observed []Float     `json:"observed"`
	Trend    []Float     `json:"trend"`
	Seasonal []Float     `json:"seasonal"`
	Residual []Float     `json:"residual"`
}

// SpectrogramResponse holds power in dB indexed [frequency][segment]
type SpectrogramResponse struct {
	Meta
	Series      string    `json:"series"`
	Filled      int       `json:"filled"`
	Start       time.Time `json:"start"`
	Frequencies []Float   `json:"frequencies"` // 1/hour
	Times       []Float   `json:"times"`       // hours from Start
	DB          [][]Float `json:"db"`
	DBMin       Float     `json:"db_min"`
	DBMax       Float     `json:"db_max"`
}

// SectorValue is one wind rose sector
type SectorValue struct {
	Sector string  `json:"sector"`
	Tonnes float64 `json:"tonnes_per_m"`
}

// SnowDriftResponse holds per-season transport and the mean wind rose
type SnowDriftResponse struct {
	Meta
	Latitude     float64                    `json:"latitude"`
	Longitude    float64                    `json:"longitude"`
	Seasons      []analysis.SeasonTransport `json:"seasons"`
	MeanQt       float64                    `json:"mean_qt_kg_per_m"`
	MeanQtTonnes float64                    `json:"mean_qt_tonnes_per_m"`
	WindRose     []SectorValue              `json:"wind_rose"`
}

// ForecastResponse holds the training window and the forecast with its band
type ForecastResponse struct {
	Meta
	Series        string      `json:"series"`
	Filled        int         `json:"filled"`
	Order         [3]int      `json:"order"`
	SeasonalOrder [4]int      `json:"seasonal_order"`
	Confidence    float64     `json:"confidence"`
	AIC           Float       `json:"aic"`
	BIC           Float       `json:"bic"`
	Variance      Float       `json:"variance"`
	TrainTimes    []time.Time `json:"train_times"`
	Train         []Float     `json:"train"`
	Times         []time.Time `json:"times"`
	Forecast      []Float     `json:"forecast"`
	Lower         []Float     `json:"lower"`
	Upper         []Float     `json:"upper"`
}

// GroupSharesResponse splits an area total by group
type GroupSharesResponse struct {
	Meta
	Kind   string            `json:"kind"`
	Area   string            `json:"area"`
	Year   int               `json:"year,omitempty"`
	Shares []data.GroupShare `json:"shares"`
}

// MonthlyTotalsResponse holds per month and group totals of one area
type MonthlyTotalsResponse struct {
	Meta
	Kind   string              `json:"kind"`
	Area   string              `json:"area"`
	Totals []data.MonthlyTotal `json:"totals"`
}

// AreaMeansResponse holds the mean hourly quantity per price area
type AreaMeansResponse struct {
	Meta
	Kind  string          `json:"kind"`
	Group string          `json:"group,omitempty"`
	From  string          `json:"from,omitempty"`
	To    string          `json:"to,omitempty"`
	Means []data.AreaMean `json:"means"`
}

// AreasResponse lists the configured price areas
type AreasResponse struct {
	Areas     []model.PriceArea `json:"areas"`
	Variables []string          `json:"variables"`
}

// AnalysesResponse lists the available analyses
type AnalysesResponse struct {
	Analyses []pipeline.AnalysisInfo `json:"analyses"`
}

// CacheClearResponse reports how many cached entries were dropped
type CacheClearResponse struct {
	Cleared int `json:"cleared"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
