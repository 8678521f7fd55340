package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/services"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type EquipmentHandler struct {
	equipmentService services.EquipmentService
}

func NewEquipmentHandler(equipmentService services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

func (eh *EquipmentHandler) List(c *gin.Context) {
	eqps, err := eh.equipmentService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eqps)
}

func (eh *EquipmentHandler) Details(c *gin.Context) {
	eqps, err := eh.equipmentService.Details(c.Request.Context(),
		c.Query("site"), c.Query("sdwt"), c.Query("eqpId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eqps)
}

func (eh *EquipmentHandler) Get(c *gin.Context) {
	eqp, err := eh.equipmentService.Get(c.Request.Context(), c.Param("eqpid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if eqp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
		return
	}
	c.JSON(http.StatusOK, eqp)
}

func (eh *EquipmentHandler) Create(c *gin.Context) {
	var eqp types.RefEquipment
	if err := c.ShouldBindJSON(&eqp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := eh.equipmentService.Create(c.Request.Context(), &eqp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eqp)
}

func (eh *EquipmentHandler) Update(c *gin.Context) {
	var eqp types.RefEquipment
	if err := c.ShouldBindJSON(&eqp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	eqp.EqpID = c.Param("eqpid")
	if err := eh.equipmentService.Update(c.Request.Context(), &eqp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eqp)
}

func (eh *EquipmentHandler) Delete(c *gin.Context) {
	if err := eh.equipmentService.Delete(c.Request.Context(), c.Param("eqpid")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
