// Package api wires the HTTP routes of the analysis service.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gridweather/internal/api/handlers"
	"gridweather/internal/api/middleware"
	"gridweather/internal/data"
	"gridweather/internal/metrics"
	"gridweather/internal/model"
)

// Deps are the collaborators of the router. Nil Metrics and Log are allowed.
type Deps struct {
	Runner      handlers.Runner
	Areas       map[string]model.PriceArea
	Results     *data.Cache[any]
	Caches      []handlers.Clearable
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	CORSOrigins []string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Log, d.Metrics))
	router.Use(middleware.ErrorHandler(d.Log))
	router.NoRoute(middleware.NotFound)

	analyses := handlers.NewAnalysisHandler(d.Runner, d.Results, d.Log)
	areas := handlers.NewAreasHandler(d.Areas)
	caches := handlers.NewCacheHandler(d.Log, d.Caches...)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/areas", areas.ListAreas)
		v1.GET("/analyses", handlers.ListAnalyses)

		v1.POST("/correlation", analyses.Correlation)
		v1.POST("/correlation/lags", analyses.LagScan)
		v1.POST("/outliers", analyses.Outliers)
		v1.POST("/anomalies", analyses.Anomalies)
		v1.POST("/decomposition", analyses.Decomposition)
		v1.POST("/spectrogram", analyses.Spectrogram)
		v1.POST("/snowdrift", analyses.SnowDrift)
		v1.POST("/forecast", analyses.Forecast)

		energy := v1.Group("/energy")
		{
			energy.GET("/shares", analyses.GroupShares)
			energy.GET("/monthly", analyses.MonthlyTotals)
			energy.GET("/means", analyses.AreaMeans)
		}

		v1.GET("/results/:id", analyses.GetResult)
		v1.DELETE("/cache", caches.Clear)
	}

	return router
}
