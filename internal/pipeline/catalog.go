package pipeline

import "gridweather/internal/model"

// ParameterInfo describes one tunable of an analysis.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
}

// AnalysisInfo describes one analysis offered by the service.
type AnalysisInfo struct {
	Name        string          `json:"name"`
	Endpoint    string          `json:"endpoint"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// Catalog lists the analyses with their parameter ranges.
func Catalog() []AnalysisInfo {
	return []AnalysisInfo{
		{
			Name:        "correlation",
			Endpoint:    "/api/v1/correlation",
			Description: "Sliding window Pearson correlation between an energy series and a lagged weather variable.",
			Parameters: []ParameterInfo{
				{Name: "lag", Type: "int", Description: "Hours the weather series is delayed (negative advances it)", Default: 0, Min: model.MinLag, Max: model.MaxLag},
				{Name: "window", Type: "int", Description: "Window length in hours", Default: 168, Min: model.MinWindowSize, Max: model.MaxWindowSize},
				{Name: "center", Type: "int", Description: "Row index the highlighted window is centred on; past the end means the middle row", Default: model.DefaultCenter, Min: 0},
			},
		},
		{
			Name:        "lag_scan",
			Endpoint:    "/api/v1/correlation/lags",
			Description: "Ranks lags by the absolute window correlation.",
			Parameters: []ParameterInfo{
				{Name: "min_lag", Type: "int", Description: "First lag in hours", Default: model.MinLag, Min: model.MinLag, Max: model.MaxLag},
				{Name: "max_lag", Type: "int", Description: "Last lag in hours", Default: model.MaxLag, Min: model.MinLag, Max: model.MaxLag},
				{Name: "step", Type: "int", Description: "Lag step in hours", Default: 1, Min: 1},
			},
		},
		{
			Name:        "outliers",
			Endpoint:    "/api/v1/outliers",
			Description: "Statistical process control on the DCT high-pass residual with median/MAD limits.",
			Parameters: []ParameterInfo{
				{Name: "freq_cutoff", Type: "int", Description: "Number of low-frequency DCT coefficients removed", Default: 100, Min: model.MinFreqCutoff, Max: model.MaxFreqCutoff},
				{Name: "num_std", Type: "float", Description: "Limit width in robust standard deviations", Default: 3.0, Min: model.MinNumStd, Max: model.MaxNumStd},
			},
		},
		{
			Name:        "anomalies",
			Endpoint:    "/api/v1/anomalies",
			Description: "Local outlier factor on a single weather variable.",
			Parameters: []ParameterInfo{
				{Name: "n_neighbors", Type: "int", Description: "Neighbours used for local density", Default: 20, Min: model.MinNeighbors, Max: model.MaxNeighbors},
				{Name: "contamination", Type: "float", Description: "Expected share of anomalies", Default: 0.01, Min: model.MinContamination, Max: model.MaxContamination},
			},
		},
		{
			Name:        "decomposition",
			Endpoint:    "/api/v1/decomposition",
			Description: "LOESS seasonal-trend decomposition (STL) of an energy series.",
			Parameters: []ParameterInfo{
				{Name: "period", Type: "int", Description: "Seasonal period in hours", Default: 24, Min: 2},
				{Name: "seasonal", Type: "int", Description: "Odd seasonal smoother length", Default: 7, Min: 3},
				{Name: "trend", Type: "int", Description: "Odd trend smoother length, greater than period", Default: 169},
				{Name: "robust", Type: "bool", Description: "Downweight outliers with bisquare weights", Default: true},
			},
		},
		{
			Name:        "spectrogram",
			Endpoint:    "/api/v1/spectrogram",
			Description: "Short-time power spectral density of an energy series.",
			Parameters: []ParameterInfo{
				{Name: "segment_length", Type: "int", Description: "Samples per segment", Default: 256, Min: 8},
				{Name: "overlap", Type: "int", Description: "Samples shared by consecutive segments", Default: 128, Min: 0},
			},
		},
		{
			Name:        "snow_drift",
			Endpoint:    "/api/v1/snowdrift",
			Description: "Seasonal snow transport (Tabler 2003) and 16-sector wind rose at a coordinate.",
			Parameters: []ParameterInfo{
				{Name: "transport_distance", Type: "float", Description: "Maximum transport distance T in m", Default: 3000.0},
				{Name: "fetch", Type: "float", Description: "Fetch distance F in m", Default: 30000.0},
				{Name: "theta", Type: "float", Description: "Relocation coefficient", Default: 0.5, Min: 0.0, Max: 1.0},
			},
		},
		{
			Name:        "forecast",
			Endpoint:    "/api/v1/forecast",
			Description: "Seasonal ARIMA forecast of an energy series with a prediction band.",
			Parameters: []ParameterInfo{
				{Name: "order", Type: "[p,d,q]", Description: "Non-seasonal AR, differencing and MA orders", Default: []int{1, 1, 1}, Min: 0, Max: model.MaxAROrder},
				{Name: "seasonal_order", Type: "[P,D,Q,s]", Description: "Seasonal orders and period in hours", Default: []int{1, 1, 1, 24}, Min: 0, Max: model.MaxPeriod},
				{Name: "horizon", Type: "int", Description: "Hours forecast past the training window", Default: 168, Min: 1, Max: model.MaxHorizon},
				{Name: "confidence", Type: "float", Description: "Prediction band level", Default: 0.95, Min: 0.0, Max: 1.0},
			},
		},
		{
			Name:        "group_shares",
			Endpoint:    "/api/v1/energy/shares",
			Description: "Total energy of one price area split by production or consumption group.",
			Parameters: []ParameterInfo{
				{Name: "year", Type: "int", Description: "Calendar year, 0 for every year", Default: 0},
			},
		},
		{
			Name:        "monthly_totals",
			Endpoint:    "/api/v1/energy/monthly",
			Description: "Monthly totals per group for one price area.",
			Parameters: []ParameterInfo{
				{Name: "group", Type: "[]string", Description: "Groups to keep, empty for all", Default: []string{}},
			},
		},
		{
			Name:        "area_means",
			Endpoint:    "/api/v1/energy/means",
			Description: "Mean hourly quantity of one group per price area over a date range.",
			Parameters: []ParameterInfo{
				{Name: "group", Type: "string", Description: "Group to average, empty for all", Default: ""},
				{Name: "from", Type: "date", Description: "First day, inclusive", Default: ""},
				{Name: "to", Type: "date", Description: "Last day, inclusive", Default: ""},
			},
		},
	}
}
