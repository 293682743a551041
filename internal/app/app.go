// Package app assembles the data sources, caches and pipeline from a
// configuration. It is shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gridweather/internal/config"
	"gridweather/internal/data"
	"gridweather/internal/metrics"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/store"
)

// Stack is the wired service. Close releases the document store and the
// snapshot database.
type Stack struct {
	Pipeline     *pipeline.Pipeline
	Areas        map[string]model.PriceArea
	WeatherCache *data.Cache[*model.WeatherResponse]
	EnergyCache  *data.Cache[[]model.EnergyRecord]
	Results      *data.Cache[any]

	closers []func(context.Context) error
	log     *zap.Logger
}

// Options override parts of the configured stack.
type Options struct {
	// Weather replaces the Open-Meteo client, e.g. with a file fetcher.
	Weather data.WeatherFetcher
	// Store replaces the configured document store.
	Store data.DocumentStore
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Build wires the stack. MongoDB is only contacted when no Store override
// is given, mongo.data_dir is empty and mongo.uri is set.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*Stack, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stack{log: log}

	areas, err := data.ResolveAreas(cfg.Areas.File)
	if err != nil {
		return nil, fmt.Errorf("price areas: %w", err)
	}
	s.Areas = areas

	snaps, err := s.openSnapshots(cfg.Cache.SnapshotPath)
	if err != nil {
		return nil, err
	}

	fetcher := opts.Weather
	if fetcher == nil {
		client := data.NewOpenMeteoClient(cfg.Weather.BaseURL, cfg.Weather.Timeout, log.Named("open-meteo"))
		if opts.Metrics != nil {
			client.OnRequest = opts.Metrics.UpstreamRequest
		}
		fetcher = client
	}

	docs := opts.Store
	if docs == nil {
		docs, err = s.openStore(ctx, cfg, opts.Metrics)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}

	var obs data.Observer
	if opts.Metrics != nil {
		obs = opts.Metrics
	}
	s.WeatherCache = data.NewCache[*model.WeatherResponse]("weather", cfg.Cache.TTL, obs)
	s.EnergyCache = data.NewCache[[]model.EnergyRecord]("energy", cfg.Cache.TTL, obs)
	s.Results = data.NewCache[any]("results", cfg.Cache.ResultTTL, obs)

	var rec pipeline.Recorder
	if opts.Metrics != nil {
		rec = opts.Metrics
	}
	s.Pipeline = &pipeline.Pipeline{
		Weather: &data.WeatherProvider{
			Fetcher:   fetcher,
			Cache:     s.WeatherCache,
			Snapshots: snaps,
			Log:       log.Named("weather"),
		},
		Energy: &data.EnergyProvider{
			Store:     docs,
			Cache:     s.EnergyCache,
			Snapshots: snaps,
			Log:       log.Named("energy"),
		},
		Areas:   areas,
		Metrics: rec,
		Log:     log.Named("pipeline"),
	}
	return s, nil
}

func (s *Stack) openSnapshots(path string) (data.SnapshotStore, error) {
	if path == "" {
		return data.NewMemorySnapshots(), nil
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	s.closers = append(s.closers, func(context.Context) error { return db.Close() })
	s.log.Info("snapshot store opened", zap.String("path", db.Path()))
	return db, nil
}

func (s *Stack) openStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (data.DocumentStore, error) {
	if cfg.Mongo.DataDir != "" {
		s.log.Info("reading energy collections from files", zap.String("dir", cfg.Mongo.DataDir))
		return data.FileStore{Dir: cfg.Mongo.DataDir}, nil
	}
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("no document store configured: set mongo.uri or mongo.data_dir")
	}
	ms, err := data.OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout, s.log.Named("mongo"))
	if err != nil {
		return nil, err
	}
	if m != nil {
		ms.OnRequest = m.UpstreamRequest
	}
	s.closers = append(s.closers, ms.Close)
	return ms, nil
}

// Close releases resources in reverse order of acquisition.
func (s *Stack) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
