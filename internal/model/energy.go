package model

import "time"

// Record is one document from the document store: a flat mapping of field
// name to scalar or timestamp.
type Record map[string]any

// EnergyKind selects the production or consumption collection.
// Keep these values stable; they are used in requests and cache keys.
type EnergyKind string

const (
	Production  EnergyKind = "production"
	Consumption EnergyKind = "consumption"
)

// GroupField is the document field holding the production or consumption group.
func (k EnergyKind) GroupField() string {
	if k == Consumption {
		return "consumptiongroup"
	}
	return "productiongroup"
}

func (k EnergyKind) Valid() bool {
	return k == Production || k == Consumption
}

// Groups lists the known groups of a kind.
func (k EnergyKind) Groups() []string {
	if k == Consumption {
		return []string{"primary", "secondary", "household", "cabin", "tertiary"}
	}
	return []string{"hydro", "wind", "solar", "thermal", "other"}
}

// EnergyRecord is one hourly row of the Elhub production or consumption data.
type EnergyRecord struct {
	PriceArea   string    `json:"pricearea"`
	Group       string    `json:"group"`
	StartTime   time.Time `json:"starttime"`
	QuantityKWh float64   `json:"quantitykwh"`
}
