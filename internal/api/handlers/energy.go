package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gridweather/internal/api/models"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

// GroupShares handles GET /api/v1/energy/shares
func (h *AnalysisHandler) GroupShares(c *gin.Context) {
	var q models.GroupSharesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}

	rep, err := h.runner.GroupShares(c.Request.Context(), pipeline.GroupSharesRequest{
		Kind: model.EnergyKind(q.Kind),
		Area: q.Area,
		Year: q.Year,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.GroupSharesResponse{
		Meta:   models.Meta{ID: newID(), Sources: rep.Provenance},
		Kind:   q.Kind,
		Area:   rep.Area,
		Year:   rep.Year,
		Shares: rep.Shares,
	}
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// MonthlyTotals handles GET /api/v1/energy/monthly
func (h *AnalysisHandler) MonthlyTotals(c *gin.Context) {
	var q models.MonthlyTotalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}

	rep, err := h.runner.MonthlyTotals(c.Request.Context(), pipeline.MonthlyRequest{
		Kind:   model.EnergyKind(q.Kind),
		Area:   q.Area,
		Groups: splitGroups(q.Groups),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.MonthlyTotalsResponse{
		Meta:   models.Meta{ID: newID(), Sources: rep.Provenance},
		Kind:   q.Kind,
		Area:   rep.Area,
		Totals: rep.Totals,
	}
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// AreaMeans handles GET /api/v1/energy/means
func (h *AnalysisHandler) AreaMeans(c *gin.Context) {
	var q models.AreaMeansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}
	from, err := parseDay("from", q.From)
	if err != nil {
		invalidRequest(c, err)
		return
	}
	to, err := parseDay("to", q.To)
	if err != nil {
		invalidRequest(c, err)
		return
	}

	rep, err := h.runner.AreaMeans(c.Request.Context(), pipeline.AreaMeansRequest{
		Kind:  model.EnergyKind(q.Kind),
		Group: q.Group,
		From:  from,
		To:    to,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.AreaMeansResponse{
		Meta:  models.Meta{ID: newID(), Sources: rep.Provenance},
		Kind:  q.Kind,
		Group: q.Group,
		From:  q.From,
		To:    q.To,
		Means: rep.Means,
	}
	h.results.Set(resp.ID, resp)
	c.JSON(http.StatusOK, resp)
}

// splitGroups accepts both ?group=a&group=b and ?group=a,b.
func splitGroups(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, g := range strings.Split(r, ",") {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
	}
	return out
}
