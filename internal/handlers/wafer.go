package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/services"
)

type WaferHandler struct {
	waferService    services.WaferService
	waferMapService services.WaferMapService
}

func NewWaferHandler(waferService services.WaferService, waferMapService services.WaferMapService) *WaferHandler {
	return &WaferHandler{waferService: waferService, waferMapService: waferMapService}
}

func bindWaferParams(c *gin.Context) (query.WaferParams, bool) {
	var p query.WaferParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return p, false
	}
	return p, true
}

func (wh *WaferHandler) DistinctValues(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	column := c.Param("column")
	values, err := wh.waferService.DistinctValues(c.Request.Context(), column, p)
	if errors.Is(err, services.ErrUnknownColumn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, values)
}

func (wh *WaferHandler) DistinctPoints(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	points, err := wh.waferService.DistinctPoints(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, points)
}

func (wh *WaferHandler) FlatData(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	page, err := wh.waferService.FlatData(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (wh *WaferHandler) Statistics(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	stats, err := wh.waferService.Statistics(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (wh *WaferHandler) PointData(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	result, err := wh.waferService.PointData(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (wh *WaferHandler) ResidualMap(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	points, err := wh.waferService.ResidualMap(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, points)
}

func (wh *WaferHandler) LotUniformityTrend(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	trend, err := wh.waferService.LotUniformityTrend(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (wh *WaferHandler) SpectrumTrend(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	series, err := wh.waferService.SpectrumTrend(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (wh *WaferHandler) Spectrum(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	series, err := wh.waferService.Spectrum(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (wh *WaferHandler) SpectrumGen(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	series, err := wh.waferService.SpectrumGen(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Absent curve is null, not 404: dashboards overlay it when present.
	c.JSON(http.StatusOK, series)
}

func (wh *WaferHandler) GoldenSpectrum(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	series, err := wh.waferService.GoldenSpectrum(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (wh *WaferHandler) OpticalTrend(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	trend, err := wh.waferService.OpticalTrend(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (wh *WaferHandler) ComparisonData(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	rows, err := wh.waferService.ComparisonData(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (wh *WaferHandler) AvailableMetrics(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	cols, err := wh.waferService.AvailableMetrics(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (wh *WaferHandler) MatchingEquipments(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	ids, err := wh.waferService.MatchingEquipments(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (wh *WaferHandler) CheckWaferMap(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	check, err := wh.waferMapService.CheckPDF(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, check)
}

func (wh *WaferHandler) WaferMapImage(c *gin.Context) {
	p, ok := bindWaferParams(c)
	if !ok {
		return
	}
	img, err := wh.waferMapService.GetImage(c.Request.Context(), p)
	if errors.Is(err, services.ErrArtifactNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "wafer map not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img})
}
