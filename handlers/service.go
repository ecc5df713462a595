package handlers

import (
	"net/http"

	"hav-jeang-api/config"
	"hav-jeang-api/middleware"
	"hav-jeang-api/models"

	"github.com/gin-gonic/gin"
)

type CreateServiceRequestBody struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	ServiceType string   `json:"service_type" binding:"required"`
}

// CreateService adds a new offering to the mechanic's catalog
func CreateService(c *gin.Context) {
	mechanicID := middleware.GetUserID(c)

	var req CreateServiceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := models.Service{
		MechanicID:  mechanicID,
		Name:        req.Name,
		Price:       *req.Price,
		ServiceType: req.ServiceType,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Service created successfully", "service": service})
}

// GetMyServices lists all services owned by the logged-in mechanic
func GetMyServices(c *gin.Context) {
	mechanicID := middleware.GetUserID(c)
	var services []models.Service
	config.DB.Where("mechanic_id = ?", mechanicID).Order("created_at desc").Find(&services)
	c.JSON(http.StatusOK, gin.H{"count": len(services), "services": services})
}

type UpdateServiceRequestBody struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	ServiceType *string  `json:"service_type"`
}

// UpdateService updates a service (only by the owning mechanic)
func UpdateService(c *gin.Context) {
	mechanicID := middleware.GetUserID(c)
	serviceID := c.Param("id")

	var service models.Service
	if err := config.DB.First(&service, serviceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if service.MechanicID != mechanicID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot update this service"})
		return
	}

	var req UpdateServiceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.ServiceType != nil {
		update["service_type"] = *req.ServiceType
	}
	config.DB.Model(&service).Updates(update)

	c.JSON(http.StatusOK, gin.H{"message": "Service updated successfully", "service": service})
}

// DeleteService removes a service (only by the owning mechanic)
func DeleteService(c *gin.Context) {
	mechanicID := middleware.GetUserID(c)
	serviceID := c.Param("id")

	var service models.Service
	if err := config.DB.First(&service, serviceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if service.MechanicID != mechanicID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete this service"})
		return
	}
	config.DB.Delete(&service)
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
