package data

import (
	"context"

	"gridweather/internal/model"
)

// DocumentStore is the read-only source of Elhub production and consumption
// records.
type DocumentStore interface {
	FetchCollection(ctx context.Context, name string) ([]model.Record, error)
}

// Collection names of the Elhub data.
const (
	ProductionCollection  = "production_data"
	ConsumptionCollection = "consumption_data"
)

// CollectionFor maps an energy kind to its collection.
func CollectionFor(kind model.EnergyKind) string {
	if kind == model.Consumption {
		return ConsumptionCollection
	}
	return ProductionCollection
}
