package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"gridweather/internal/model"
)

// WeatherFetcher is the boundary to the weather archive.
type WeatherFetcher interface {
	FetchHourly(ctx context.Context, q WeatherQuery) (*model.WeatherResponse, error)
}

// Fetched wraps a source value with its provenance.
type Fetched[T any] struct {
	Value     T
	FetchedAt time.Time
	// Cached is true when the value came from the in-memory cache without
	// contacting the source.
	Cached bool
	// Stale is true when the source failed and the last known good value
	// was served instead.
	Stale bool
}

// WeatherProvider serves weather responses through a cache, falling back to
// the last known good response when the archive is unavailable.
type WeatherProvider struct {
	Fetcher   WeatherFetcher
	Cache     *Cache[*model.WeatherResponse]
	Snapshots SnapshotStore
	Log       *zap.Logger
}

// Hourly returns the response for q.
func (p *WeatherProvider) Hourly(ctx context.Context, q WeatherQuery) (Fetched[*model.WeatherResponse], error) {
	return loadThrough(ctx, WeatherKey(q), p.Cache, p.Snapshots, logger(p.Log).With(zap.String("source", "weather")),
		func(ctx context.Context) (*model.WeatherResponse, error) {
			return p.Fetcher.FetchHourly(ctx, q)
		})
}

// EnergyProvider serves parsed Elhub records per energy kind.
type EnergyProvider struct {
	Store     DocumentStore
	Cache     *Cache[[]model.EnergyRecord]
	Snapshots SnapshotStore
	Log       *zap.Logger
}

// Records returns every record of the kind's collection.
func (p *EnergyProvider) Records(ctx context.Context, kind model.EnergyKind) (Fetched[[]model.EnergyRecord], error) {
	name := CollectionFor(kind)
	return loadThrough(ctx, EnergyKey(name), p.Cache, p.Snapshots, logger(p.Log).With(zap.String("source", "energy")),
		func(ctx context.Context) ([]model.EnergyRecord, error) {
			raw, err := p.Store.FetchCollection(ctx, name)
			if err != nil {
				return nil, err
			}
			return ParseEnergyRecords(raw, kind)
		})
}

// Series fetches the kind's records and reduces them to one hourly series.
func (p *EnergyProvider) Series(ctx context.Context, f EnergyFilter) (Fetched[model.TimeSeries], error) {
	recs, err := p.Records(ctx, f.Kind)
	if err != nil {
		return Fetched[model.TimeSeries]{}, err
	}
	return Fetched[model.TimeSeries]{
		Value:     EnergySeries(recs.Value, f),
		FetchedAt: recs.FetchedAt,
		Cached:    recs.Cached,
		Stale:     recs.Stale,
	}, nil
}

// loadThrough implements cache -> source -> last known good. Only
// *model.UpstreamFetchError triggers the fallback; other errors propagate.
func loadThrough[T any](ctx context.Context, key string, c *Cache[T], snaps SnapshotStore, log *zap.Logger, fetch func(context.Context) (T, error)) (Fetched[T], error) {
	if v, ok := c.Get(key); ok {
		_, at, _ := c.Peek(key)
		return Fetched[T]{Value: v, FetchedAt: at, Cached: true}, nil
	}

	v, err := fetch(ctx)
	if err == nil {
		now := time.Now().UTC()
		c.Set(key, v)
		if snaps != nil {
			if payload, mErr := json.Marshal(v); mErr != nil {
				log.Warn("snapshot encode failed", zap.Error(mErr))
			} else if sErr := snaps.Save(ctx, key, payload); sErr != nil {
				log.Warn("snapshot save failed", zap.Error(sErr))
			}
		}
		return Fetched[T]{Value: v, FetchedAt: now}, nil
	}

	var upstream *model.UpstreamFetchError
	if !errors.As(err, &upstream) {
		return Fetched[T]{}, err
	}

	if old, at, ok := c.Peek(key); ok {
		log.Warn("serving stale cache entry", zap.Error(err), zap.Time("fetched_at", at))
		return Fetched[T]{Value: old, FetchedAt: at, Stale: true}, nil
	}
	if snaps != nil {
		payload, at, sErr := snaps.Load(ctx, key)
		switch {
		case sErr == nil:
			var old T
			uErr := json.Unmarshal(payload, &old)
			if uErr == nil {
				log.Warn("serving stored snapshot", zap.Error(err), zap.Time("fetched_at", at))
				return Fetched[T]{Value: old, FetchedAt: at, Stale: true}, nil
			}
			log.Warn("snapshot decode failed", zap.Error(uErr))
		case !errors.Is(sErr, ErrSnapshotNotFound):
			log.Warn("snapshot load failed", zap.Error(sErr))
		}
	}
	return Fetched[T]{}, err
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
