package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gridweather/internal/model"
)

// LoadWeatherJSON reads an archive API response saved to disk.
func LoadWeatherJSON(path string) (*model.WeatherResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.WeatherResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse weather file: %w", err)
	}
	return &resp, nil
}

// SaveWeatherJSON writes a response in the archive API's JSON shape.
func SaveWeatherJSON(resp *model.WeatherResponse, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weather response: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}

// FileStore is a DocumentStore backed by JSON files: collection name maps
// to <Dir>/<name>.json holding an array of flat objects.
type FileStore struct {
	Dir string
}

func (s FileStore) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

// FetchCollection reads every record of a collection file.
func (s FileStore) FetchCollection(ctx context.Context, name string) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, &model.UpstreamFetchError{
			Source:  "file",
			Code:    "READ_FAILED",
			Message: fmt.Sprintf("failed to read collection %q", name),
			Err:     err,
		}
	}
	var records []model.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse collection %q: %w", name, err)
	}
	return records, nil
}

// SaveCollection writes records so FetchCollection can read them back.
func (s FileStore) SaveCollection(name string, records []model.Record) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %q: %w", name, err)
	}
	return os.WriteFile(s.path(name), raw, 0644)
}

// WeatherFile is a WeatherFetcher serving a saved archive response. Only
// the hours inside the query's day range are returned; the coordinate of
// the query is ignored.
type WeatherFile struct {
	Path string
}

func (f WeatherFile) FetchHourly(ctx context.Context, q WeatherQuery) (*model.WeatherResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := LoadWeatherJSON(f.Path)
	if err != nil {
		return nil, &model.UpstreamFetchError{
			Source:  "file",
			Code:    "READ_FAILED",
			Message: fmt.Sprintf("failed to read weather file %q", f.Path),
			Err:     err,
		}
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return resp, nil
	}
	return sliceHours(resp, q.Start.Unix(), q.End.AddDate(0, 0, 1).Unix()), nil
}

// sliceHours keeps the hours in [from, to) of every column.
func sliceHours(resp *model.WeatherResponse, from, to int64) *model.WeatherResponse {
	out := *resp
	out.Hourly = model.HourlyBlock{Values: make(map[string][]*float64, len(resp.Hourly.Values))}
	var keep []int
	for i, ts := range resp.Hourly.Time {
		if ts >= from && ts < to {
			keep = append(keep, i)
			out.Hourly.Time = append(out.Hourly.Time, ts)
		}
	}
	for name, col := range resp.Hourly.Values {
		vals := make([]*float64, 0, len(keep))
		for _, i := range keep {
			if i < len(col) {
				vals = append(vals, col[i])
			}
		}
		out.Hourly.Values[name] = vals
	}
	return &out
}
