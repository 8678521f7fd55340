package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
)

type FilterHandler struct {
	filterService services.FilterService
}

func NewFilterHandler(filterService services.FilterService) *FilterHandler {
	return &FilterHandler{filterService: filterService}
}

func (fh *FilterHandler) Sites(c *gin.Context) {
	sites, err := fh.filterService.Sites(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sites)
}

func (fh *FilterHandler) Sdwts(c *gin.Context) {
	sdwts, err := fh.filterService.Sdwts(c.Request.Context(), c.Query("site"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sdwts)
}

func (fh *FilterHandler) EquipmentIDs(c *gin.Context) {
	ids, err := fh.filterService.EquipmentIDs(c.Request.Context(), c.Query("site"), c.Query("sdwt"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ids)
}
