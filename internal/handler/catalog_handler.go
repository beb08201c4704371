package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedule-service/internal/repository"
)

type CatalogHandler struct {
	catalogs *repository.CatalogRepository
	logger   *zap.Logger
}

func NewCatalogHandler(catalogs *repository.CatalogRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, logger: logger}
}

func (h *CatalogHandler) ListStaff(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"staff": h.catalogs.ListStaff()})
}

func (h *CatalogHandler) AddStaff(c *gin.Context) {
	var req AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	staff, err := h.catalogs.AddStaff(req.Name, req.Phone)
	if err != nil {
		h.logger.Error("failed to add staff", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add staff"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"staff": staff})
}

func (h *CatalogHandler) DeleteStaff(c *gin.Context) {
	if err := h.catalogs.DeleteStaff(c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "staff member not found"})
			return
		}
		h.logger.Error("failed to delete staff", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete staff"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.catalogs.ListServices()})
}

func (h *CatalogHandler) AddService(c *gin.Context) {
	var req AddServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	item, err := h.catalogs.AddService(req.Name)
	if err != nil {
		h.logger.Error("failed to add service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add service"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": item})
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.catalogs.DeleteService(c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		h.logger.Error("failed to delete service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
