package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type ErrorLogHandler struct {
	errorLogService services.ErrorLogService
}

func NewErrorLogHandler(errorLogService services.ErrorLogService) *ErrorLogHandler {
	return &ErrorLogHandler{errorLogService: errorLogService}
}

func (eh *ErrorLogHandler) Summary(c *gin.Context) {
	summary, err := eh.errorLogService.Summary(c.Request.Context(),
		c.Query("site"), c.Query("sdwt"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (eh *ErrorLogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := eh.errorLogService.List(c.Request.Context(),
		c.Query("site"), c.Query("sdwt"), c.Query("startDate"), c.Query("endDate"),
		page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
