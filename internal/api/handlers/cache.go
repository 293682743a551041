package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gridweather/internal/api/models"
)

// Clearable is a cache that can be emptied, e.g. *data.Cache[T].
type Clearable interface {
	Len() int
	Clear()
}

// CacheHandler drops cached source data so the next request refetches it
type CacheHandler struct {
	caches []Clearable
	log    *zap.Logger
}

func NewCacheHandler(log *zap.Logger, caches ...Clearable) *CacheHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CacheHandler{caches: caches, log: log}
}

// Clear handles DELETE /api/v1/cache
func (h *CacheHandler) Clear(c *gin.Context) {
	cleared := 0
	for _, cache := range h.caches {
		cleared += cache.Len()
		cache.Clear()
	}
	h.log.Info("caches cleared", zap.Int("entries", cleared))
	c.JSON(http.StatusOK, models.CacheClearResponse{Cleared: cleared})
}
