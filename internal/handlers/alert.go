package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type AlertHandler struct {
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (ah *AlertHandler) List(c *gin.Context) {
	alerts, err := ah.alertService.List(c.Request.Context(), c.Query("since"), c.Query("eqpId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (ah *AlertHandler) Ack(c *gin.Context) {
	if err := ah.alertService.Ack(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
