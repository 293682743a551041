package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"gridweather/internal/model"
)

// DefaultOpenMeteoURL is the ERA5 reanalysis archive.
const DefaultOpenMeteoURL = "https://archive-api.open-meteo.com"

// OpenMeteoClient fetches hourly reanalysis data from the Open-Meteo archive API.
type OpenMeteoClient struct {
	BaseURL string
	Client  *http.Client
	Log     *zap.Logger
	// OnRequest, if set, is called after every upstream request.
	OnRequest func(source string, d time.Duration, err error)
}

// NewOpenMeteoClient creates a new archive API client.
// If baseURL is empty, defaults to DefaultOpenMeteoURL.
func NewOpenMeteoClient(baseURL string, timeout time.Duration, log *zap.Logger) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenMeteoClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

// WeatherQuery defines parameters for an hourly archive request.
type WeatherQuery struct {
	Latitude  float64
	Longitude float64
	Start     time.Time // first day (inclusive)
	End       time.Time // last day (inclusive)
	Variables []string  // defaults to model.DefaultWeatherVariables
}

func (q WeatherQuery) Validate() error {
	if q.Latitude < -90 || q.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", q.Latitude)
	}
	if q.Longitude < -180 || q.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", q.Longitude)
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if q.Start.After(q.End) {
		return fmt.Errorf("start must not be after end")
	}
	return nil
}

func (q WeatherQuery) variables() []string {
	if len(q.Variables) == 0 {
		return model.DefaultWeatherVariables
	}
	return q.Variables
}

// YearQuery covers one calendar year at the given coordinate.
func YearQuery(lat, lon float64, year int) WeatherQuery {
	return WeatherQuery{
		Latitude:  lat,
		Longitude: lon,
		Start:     time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// FetchHourly requests the hourly variables of q. Timestamps are requested
// as unix seconds in GMT so they join with the UTC energy records.
//
// Any transport failure or non-200 response is an *model.UpstreamFetchError.
func (c *OpenMeteoClient) FetchHourly(ctx context.Context, q WeatherQuery) (*model.WeatherResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.BaseURL + "/v1/era5")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	vals := u.Query()
	vals.Set("latitude", fmt.Sprintf("%g", q.Latitude))
	vals.Set("longitude", fmt.Sprintf("%g", q.Longitude))
	vals.Set("start_date", q.Start.Format("2006-01-02"))
	vals.Set("end_date", q.End.Format("2006-01-02"))
	vals.Set("hourly", strings.Join(q.variables(), ","))
	vals.Set("timeformat", "unixtime")
	vals.Set("timezone", "GMT")
	u.RawQuery = vals.Encode()

	log := c.Log.With(
		zap.Float64("latitude", q.Latitude),
		zap.Float64("longitude", q.Longitude),
		zap.String("start", q.Start.Format("2006-01-02")),
		zap.String("end", q.End.Format("2006-01-02")),
	)
	log.Debug("open-meteo request", zap.String("path", u.Path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Warn("open-meteo request failed", zap.Error(err), zap.Duration("duration", duration))
		fetchErr := &model.UpstreamFetchError{
			Source:  "open-meteo",
			Code:    "UNREACHABLE",
			Message: "weather archive unreachable",
			Err:     err,
		}
		c.observe(duration, fetchErr)
		return nil, fetchErr
	}
	defer resp.Body.Close()

	log.Debug("open-meteo response", zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))

	if resp.StatusCode != http.StatusOK {
		fetchErr := statusError(resp)
		log.Warn("open-meteo error", zap.Int("status", resp.StatusCode), zap.Error(fetchErr))
		c.observe(duration, fetchErr)
		return nil, fetchErr
	}

	var result model.WeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Warn("open-meteo decode failed", zap.Error(err))
		fetchErr := &model.UpstreamFetchError{
			Source:     "open-meteo",
			StatusCode: resp.StatusCode,
			Code:       "INVALID_RESPONSE",
			Message:    "failed to decode weather response",
			Err:        err,
		}
		c.observe(duration, fetchErr)
		return nil, fetchErr
	}
	c.observe(duration, nil)

	log.Info("open-meteo success", zap.Int("hours", len(result.Hourly.Time)))
	return &result, nil
}

func (c *OpenMeteoClient) observe(d time.Duration, err error) {
	if c.OnRequest != nil {
		c.OnRequest("open-meteo", d, err)
	}
}

// statusError maps a non-200 archive response to an error. The API reports
// a JSON {"error": true, "reason": "..."} body on bad requests. Client errors
// other than 429 wrap model.ErrRequestRejected so that no last known good
// value is served for a malformed query; everything else is an
// *model.UpstreamFetchError.
func statusError(resp *http.Response) error {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		if body.Reason != "" {
			return fmt.Errorf("open-meteo status %d: %s: %w", resp.StatusCode, body.Reason, model.ErrRequestRejected)
		}
		return fmt.Errorf("open-meteo status %d: %w", resp.StatusCode, model.ErrRequestRejected)
	}

	e := &model.UpstreamFetchError{
		Source:     "open-meteo",
		StatusCode: resp.StatusCode,
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		e.RetryAfter = resp.Header.Get("Retry-After")
		e.Code = "RATE_LIMIT_EXCEEDED"
		e.Message = fmt.Sprintf("Rate limit exceeded. Retry after: %s", e.RetryAfter)
	} else {
		e.Code = "API_ERROR"
		e.Message = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status)
	}
	if body.Reason != "" {
		e.Message += ": " + body.Reason
	}
	return e
}
