package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gridweather/internal/app"
	"gridweather/internal/config"
	"gridweather/internal/data"
	"gridweather/internal/logging"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

type globalFlags struct {
	config  string
	weather string
	dataDir string
	out     string
	limit   int
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withPipeline builds the stack for one command and releases it afterwards.
func (c *commandContext) withPipeline(ctx context.Context, stderr io.Writer, fn func(*pipeline.Pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: "console", Output: stderr})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var opts app.Options
	if path := strings.TrimSpace(c.flags.weather); path != "" {
		opts.Weather = data.WeatherFile{Path: path}
	}
	if dir := strings.TrimSpace(c.flags.dataDir); dir != "" {
		opts.Store = data.FileStore{Dir: dir}
	}

	stack, err := app.Build(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := stack.Close(context.Background()); cErr != nil {
			logger.Warn("close stack", zap.Error(cErr))
		}
	}()
	return fn(stack.Pipeline)
}

// emit renders the head of t and writes the full table when --out is set.
func (c *commandContext) emit(out io.Writer, t report.Table, prov []pipeline.Provenance) error {
	for _, p := range prov {
		if p.Stale {
			fmt.Fprintf(out, "Note: %s %s served from data fetched %s\n", p.Source, p.Series, p.FetchedAt.Format("2006-01-02 15:04"))
		}
	}
	if err := report.Render(out, t.Head(c.flags.limit)); err != nil {
		return err
	}
	if c.flags.limit > 0 && len(t.Rows) > c.flags.limit {
		fmt.Fprintf(out, "(%d of %d rows)\n", c.flags.limit, len(t.Rows))
	}
	if path := strings.TrimSpace(c.flags.out); path != "" {
		if err := report.WriteCSV(path, t); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d rows to %s\n", len(t.Rows), path)
	}
	return nil
}
