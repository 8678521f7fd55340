package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) Summary(c *gin.Context) {
	summary, err := dh.dashboardService.Summary(c.Request.Context(), c.Query("site"), c.Query("sdwt"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (dh *DashboardHandler) AgentStatus(c *gin.Context) {
	rows, err := dh.dashboardService.AgentStatus(c.Request.Context(),
		c.Query("site"), c.Query("sdwt"), c.Query("latestVersion"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
