package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridweather/internal/api/models"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

// ListAnalyses handles GET /api/v1/analyses
func ListAnalyses(c *gin.Context) {
	c.JSON(http.StatusOK, models.AnalysesResponse{Analyses: pipeline.Catalog()})
}

// AreasHandler serves the configured price areas
type AreasHandler struct {
	areas []model.PriceArea
}

// NewAreasHandler creates a new areas handler
func NewAreasHandler(areas map[string]model.PriceArea) *AreasHandler {
	if areas == nil {
		areas = model.DefaultPriceAreas
	}
	return &AreasHandler{areas: model.SortedAreas(areas)}
}

// ListAreas handles GET /api/v1/areas
func (h *AreasHandler) ListAreas(c *gin.Context) {
	c.JSON(http.StatusOK, models.AreasResponse{
		Areas:     h.areas,
		Variables: model.DefaultWeatherVariables,
	})
}
