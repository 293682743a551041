package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridweather/internal/model"
)

// AreaList is the on-disk form of price area coordinate overrides.
type AreaList struct {
	UpdatedAt string            `json:"updated_at"` // ISO 8601 timestamp
	Areas     []model.PriceArea `json:"areas"`
}

// LoadAreas loads price areas from a JSON file
func LoadAreas(filePath string) (*AreaList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read areas file: %w", err)
	}

	var list AreaList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse areas file: %w", err)
	}
	for i, a := range list.Areas {
		if a.ID == "" {
			return nil, fmt.Errorf("area %d has no id", i)
		}
		if a.Latitude < -90 || a.Latitude > 90 || a.Longitude < -180 || a.Longitude > 180 {
			return nil, fmt.Errorf("area %s has invalid coordinates", a.ID)
		}
	}
	return &list, nil
}

// SaveAreas saves price areas to a JSON file
func SaveAreas(list *AreaList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal areas: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write areas file: %w", err)
	}

	return nil
}

// ResolveAreas returns the default price areas with any entries of the file
// at path layered on top. An empty path yields the defaults.
func ResolveAreas(path string) (map[string]model.PriceArea, error) {
	out := make(map[string]model.PriceArea, len(model.DefaultPriceAreas))
	for id, a := range model.DefaultPriceAreas {
		out[id] = a
	}
	if path == "" {
		return out, nil
	}
	list, err := LoadAreas(path)
	if err != nil {
		return nil, err
	}
	for _, a := range list.Areas {
		a.ID = strings.ToUpper(a.ID)
		out[a.ID] = a
	}
	return out, nil
}
