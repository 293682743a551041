package models

// EnergySelection picks one energy series. Group is optional; an empty
// group sums every production or consumption group.
type EnergySelection struct {
	Kind  string `json:"kind" binding:"required,oneof=production consumption"`
	Area  string `json:"area" binding:"required"`
	Group string `json:"group,omitempty"`
	Year  int    `json:"year" binding:"required"`
}

// CorrelationRequest represents the request body for the sliding window correlation
type CorrelationRequest struct {
	Energy   EnergySelection `json:"energy" binding:"required"`
	Variable string          `json:"variable" binding:"required"` // e.g. "temperature_2m"
	Lag      int             `json:"lag"`                         // hours
	Window   int             `json:"window" binding:"required"`   // hours
	Center   int             `json:"center"`                      // row index
}

// LagScanRequest represents a request to rank lags. Missing bounds default
// to the full lag range.
type LagScanRequest struct {
	Energy   EnergySelection `json:"energy" binding:"required"`
	Variable string          `json:"variable" binding:"required"`
	Window   int             `json:"window" binding:"required"`
	Center   int             `json:"center"`
	MinLag   *int            `json:"min_lag,omitempty"`
	MaxLag   *int            `json:"max_lag,omitempty"`
	Step     int             `json:"step,omitempty"` // default: 1
}

// OutlierRequest runs the SPC detector on a weather variable.
type OutlierRequest struct {
	Area       string  `json:"area" binding:"required"`
	Year       int     `json:"year" binding:"required"`
	Variable   string  `json:"variable,omitempty"` // default: temperature_2m
	FreqCutoff int     `json:"freq_cutoff" binding:"required"`
	NumStd     float64 `json:"num_std,omitempty"` // default: 3
}

// AnomalyRequest runs the LOF detector on a weather variable.
type AnomalyRequest struct {
	Area          string  `json:"area" binding:"required"`
	Year          int     `json:"year" binding:"required"`
	Variable      string  `json:"variable,omitempty"`      // default: precipitation
	NNeighbors    int     `json:"n_neighbors,omitempty"`   // default: 20
	Contamination float64 `json:"contamination,omitempty"` // default: 0.01
}

// DecompositionRequest runs STL on an energy series. Zero values take the
// hourly defaults.
type DecompositionRequest struct {
	Energy   EnergySelection `json:"energy" binding:"required"`
	Period   int             `json:"period,omitempty"`
	Seasonal int             `json:"seasonal,omitempty"`
	Trend    int             `json:"trend,omitempty"`
	Robust   *bool           `json:"robust,omitempty"`
}

// SpectrogramRequest computes the short-time spectrum of an energy series.
type SpectrogramRequest struct {
	Energy        EnergySelection `json:"energy" binding:"required"`
	SegmentLength int             `json:"segment_length,omitempty"` // default: 256
	Overlap       *int            `json:"overlap,omitempty"`        // default: segment_length/2
}

// SnowDriftRequest evaluates seasonal snow transport at a coordinate or at
// the coordinate of a price area.
type SnowDriftRequest struct {
	Area              string   `json:"area,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	FromYear          int      `json:"from_year" binding:"required"`
	ToYear            int      `json:"to_year" binding:"required"`
	TransportDistance float64  `json:"transport_distance,omitempty"` // m, default: 3000
	Fetch             float64  `json:"fetch,omitempty"`              // m, default: 30000
	Theta             *float64 `json:"theta,omitempty"`              // default: 0.5
}

// ForecastRequest fits a seasonal ARIMA model to an energy series over the
// training days train_start through train_end (YYYY-MM-DD, inclusive).
type ForecastRequest struct {
	Kind          string  `json:"kind" binding:"required,oneof=production consumption"`
	Area          string  `json:"area" binding:"required"`
	Group         string  `json:"group,omitempty"`
	TrainStart    string  `json:"train_start" binding:"required"`
	TrainEnd      string  `json:"train_end" binding:"required"`
	Order         []int   `json:"order,omitempty" binding:"omitempty,len=3"`          // p, d, q; default: 1, 1, 1
	SeasonalOrder []int   `json:"seasonal_order,omitempty" binding:"omitempty,len=4"` // P, D, Q, s; default: 1, 1, 1, 24
	Horizon       int     `json:"horizon,omitempty"`                                  // hours, default: 168
	Confidence    float64 `json:"confidence,omitempty"`                               // default: 0.95
}

// GroupSharesQuery selects GET /energy/shares. Year 0 sums every year.
type GroupSharesQuery struct {
	Kind string `form:"kind" binding:"required,oneof=production consumption"`
	Area string `form:"area" binding:"required"`
	Year int    `form:"year"`
}

// MonthlyTotalsQuery selects GET /energy/monthly. Repeat group to keep
// several groups; none keeps all.
type MonthlyTotalsQuery struct {
	Kind   string   `form:"kind" binding:"required,oneof=production consumption"`
	Area   string   `form:"area" binding:"required"`
	Groups []string `form:"group"`
}

// AreaMeansQuery selects GET /energy/means. From and To are YYYY-MM-DD
// and inclusive; either may be empty.
type AreaMeansQuery struct {
	Kind  string `form:"kind" binding:"required,oneof=production consumption"`
	Group string `form:"group"`
	From  string `form:"from"`
	To    string `form:"to"`
}
