package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridweather/internal/api/models"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

func abortWith(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func invalidRequest(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondError maps pipeline errors to HTTP status codes. Failures are
// terminal for the request; no partial result is returned.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var upstream *model.UpstreamFetchError
	switch {
	case errors.As(err, &upstream):
		details := map[string]interface{}{
			"source":      upstream.Source,
			"status_code": upstream.StatusCode,
			"code":        upstream.Code,
		}
		if upstream.RetryAfter != "" {
			details["retry_after"] = upstream.RetryAfter
		}
		abortWith(c, http.StatusBadGateway, "UPSTREAM_FETCH_ERROR", err.Error(), details)
	case errors.Is(err, model.ErrRequestRejected):
		abortWith(c, http.StatusBadRequest, "REQUEST_REJECTED", err.Error(), nil)
	case errors.Is(err, model.ErrEmptyIntersection):
		abortWith(c, http.StatusUnprocessableEntity, "EMPTY_INTERSECTION", err.Error(), nil)
	case errors.Is(err, model.ErrInvalidCutoff):
		abortWith(c, http.StatusUnprocessableEntity, "INVALID_CUTOFF", err.Error(), nil)
	case errors.Is(err, model.ErrInsufficientData):
		abortWith(c, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", err.Error(), nil)
	case errors.Is(err, pipeline.ErrInvalidParams), errors.Is(err, pipeline.ErrUnknownArea):
		abortWith(c, http.StatusBadRequest, "INVALID_PARAMS", err.Error(), nil)
	default:
		abortWith(c, http.StatusInternalServerError, "ANALYSIS_ERROR", err.Error(), nil)
	}
}
