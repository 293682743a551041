package model

import "sort"

// PriceArea is a Norwegian electricity price area with a representative
// coordinate used for weather lookups.
type PriceArea struct {
	ID        string  `json:"id"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultPriceAreas maps NO1..NO5 to their main city.
var DefaultPriceAreas = map[string]PriceArea{
	"NO1": {ID: "NO1", City: "Oslo", Latitude: 59.91, Longitude: 10.75},
	"NO2": {ID: "NO2", City: "Kristiansand", Latitude: 58.15, Longitude: 7.99},
	"NO3": {ID: "NO3", City: "Trondheim", Latitude: 63.43, Longitude: 10.39},
	"NO4": {ID: "NO4", City: "Tromsø", Latitude: 69.65, Longitude: 18.96},
	"NO5": {ID: "NO5", City: "Bergen", Latitude: 60.39, Longitude: 5.32},
}

// SortedAreas returns the areas ordered by ID.
func SortedAreas(areas map[string]PriceArea) []PriceArea {
	out := make([]PriceArea, 0, len(areas))
	for _, a := range areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
