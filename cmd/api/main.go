package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gridweather/internal/api"
	"gridweather/internal/api/handlers"
	"gridweather/internal/app"
	"gridweather/internal/config"
	"gridweather/internal/logging"
	"gridweather/internal/metrics"
)

func main() {
	configPath := flag.String("config", os.Getenv("GRIDWEATHER_CONFIG"), "Path to YAML config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	m := metrics.New()
	stack, err := app.Build(ctx, cfg, logger, app.Options{Metrics: m})
	if err != nil {
		logger.Fatal("build service", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Runner:      stack.Pipeline,
		Areas:       stack.Areas,
		Results:     stack.Results,
		Caches:      []handlers.Clearable{stack.WeatherCache, stack.EnergyCache},
		Metrics:     m,
		Log:         logger.Named("http"),
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		logger.Info("starting API server", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := stack.Close(shutdownCtx); err != nil {
		logger.Warn("close stack", zap.Error(err))
	}
}
