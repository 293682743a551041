package data

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gridweather/internal/model"
)

const archiveBody = `{
  "latitude": 59.9,
  "longitude": 10.75,
  "utc_offset_seconds": 0,
  "timezone": "GMT",
  "hourly": {
    "time": [1609459200, 1609462800, 1609466400],
    "temperature_2m": [-3.5, null, -2.25],
    "wind_speed_10m": [4.1, 5.2, 6.3]
  }
}`

func TestFetchHourly(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(archiveBody))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(srv.URL, time.Second, nil)
	q := YearQuery(59.91, 10.75, 2021)
	q.Variables = []string{model.VarTemperature, model.VarWindSpeed}

	var observed error = errors.New("not called")
	c.OnRequest = func(_ string, _ time.Duration, err error) { observed = err }

	resp, err := c.FetchHourly(context.Background(), q)
	if err != nil {
		t.Fatalf("FetchHourly: %v", err)
	}
	if observed != nil {
		t.Errorf("OnRequest saw %v", observed)
	}

	if got.URL.Path != "/v1/era5" {
		t.Errorf("path = %s", got.URL.Path)
	}
	params := got.URL.Query()
	want := map[string]string{
		"latitude":   "59.91",
		"longitude":  "10.75",
		"start_date": "2021-01-01",
		"end_date":   "2021-12-31",
		"hourly":     "temperature_2m,wind_speed_10m",
		"timeformat": "unixtime",
		"timezone":   "GMT",
	}
	for k, v := range want {
		if params.Get(k) != v {
			t.Errorf("query %s = %q, want %q", k, params.Get(k), v)
		}
	}

	temp, err := resp.Series(model.VarTemperature)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if temp.Len() != 3 || !math.IsNaN(temp.Points[1].Value) || temp.Points[2].Value != -2.25 {
		t.Errorf("temperature = %+v", temp.Points)
	}
	if !temp.Points[0].Time.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first time = %v", temp.Points[0].Time)
	}
}

func TestFetchHourlyErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		body   string
		code   string
	}{
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "60"}, "", "RATE_LIMIT_EXCEEDED"},
		{"server error", http.StatusBadGateway, nil, "", "API_ERROR"},
		{"garbage", http.StatusOK, nil, "not json", "INVALID_RESPONSE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOpenMeteoClient(srv.URL, time.Second, nil)
			_, err := c.FetchHourly(context.Background(), YearQuery(60, 10, 2022))
			var upstream *model.UpstreamFetchError
			if !errors.As(err, &upstream) {
				t.Fatalf("err = %v, want *UpstreamFetchError", err)
			}
			if upstream.Code != tt.code {
				t.Errorf("code = %s, want %s", upstream.Code, tt.code)
			}
			if tt.status == http.StatusTooManyRequests && upstream.RetryAfter != "60" {
				t.Errorf("retry after = %q", upstream.RetryAfter)
			}
		})
	}
}

func TestFetchHourlyRejectedRequestIsNotUpstream(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":true,"reason":"Cannot initialize WeatherVariable"}`))
		}))

		c := NewOpenMeteoClient(srv.URL, time.Second, nil)
		_, err := c.FetchHourly(context.Background(), YearQuery(60, 10, 2022))
		srv.Close()

		if !errors.Is(err, model.ErrRequestRejected) {
			t.Fatalf("status %d: err = %v, want ErrRequestRejected", status, err)
		}
		var upstream *model.UpstreamFetchError
		if errors.As(err, &upstream) {
			t.Errorf("status %d: rejected request reported as upstream failure", status)
		}
		if !strings.Contains(err.Error(), "Cannot initialize WeatherVariable") {
			t.Errorf("reason missing from %v", err)
		}
	}
}

func TestFetchHourlyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOpenMeteoClient(url, time.Second, nil)
	_, err := c.FetchHourly(context.Background(), YearQuery(60, 10, 2022))
	var upstream *model.UpstreamFetchError
	if !errors.As(err, &upstream) || upstream.Code != "UNREACHABLE" {
		t.Fatalf("err = %v, want UNREACHABLE", err)
	}
}

func TestWeatherQueryValidate(t *testing.T) {
	q := YearQuery(59.9, 10.7, 2021)
	if err := q.Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	bad := q
	bad.Latitude = 91
	if bad.Validate() == nil {
		t.Error("latitude 91 accepted")
	}
	bad = q
	bad.Start, bad.End = q.End, q.Start
	if bad.Validate() == nil {
		t.Error("reversed range accepted")
	}
}
