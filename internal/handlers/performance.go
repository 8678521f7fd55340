package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type PerformanceHandler struct {
	perfService services.PerformanceService
}

func NewPerformanceHandler(perfService services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{perfService: perfService}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (ph *PerformanceHandler) SystemHistory(c *gin.Context) {
	eqpIDs := splitCSV(c.Query("eqpIds"))
	if len(eqpIDs) == 0 {
		eqpIDs = splitCSV(c.Query("eqpId"))
	}
	history, err := ph.perfService.SystemHistory(c.Request.Context(), eqpIDs,
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (ph *PerformanceHandler) ProcessHistory(c *gin.Context) {
	history, err := ph.perfService.ProcessHistory(c.Request.Context(),
		c.Query("eqpId"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (ph *PerformanceHandler) AgentTrend(c *gin.Context) {
	trend, err := ph.perfService.AgentTrend(c.Request.Context(),
		c.Query("eqpId"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}
