package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type MetricConfigHandler struct {
	metricConfigService services.MetricConfigService
}

func NewMetricConfigHandler(metricConfigService services.MetricConfigService) *MetricConfigHandler {
	return &MetricConfigHandler{metricConfigService: metricConfigService}
}

func (mh *MetricConfigHandler) List(c *gin.Context) {
	cfgs, err := mh.metricConfigService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfgs)
}

func (mh *MetricConfigHandler) Upsert(c *gin.Context) {
	var req struct {
		MetricName string `json:"metricName"`
		IsExcluded string `json:"isExcluded"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cfg, err := mh.metricConfigService.Upsert(c.Request.Context(), req.MetricName, req.IsExcluded)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (mh *MetricConfigHandler) Delete(c *gin.Context) {
	if err := mh.metricConfigService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
