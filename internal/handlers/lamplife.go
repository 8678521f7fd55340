package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type LampLifeHandler struct {
	lampLifeService services.LampLifeService
}

func NewLampLifeHandler(lampLifeService services.LampLifeService) *LampLifeHandler {
	return &LampLifeHandler{lampLifeService: lampLifeService}
}

func (lh *LampLifeHandler) List(c *gin.Context) {
	rows, err := lh.lampLifeService.List(c.Request.Context(), c.Query("site"), c.Query("sdwt"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
