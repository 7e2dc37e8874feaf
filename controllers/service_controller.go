package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photolab/photolab-api/config"
	"github.com/photolab/photolab-api/services"
)

// CreateServiceRequest represents the request body for a new catalog entry
type CreateServiceRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	ProcessingTime *int    `json:"processing_time"`
	Category       string  `json:"category"`
}

// UpdateServiceRequest represents the request body for editing a catalog entry
type UpdateServiceRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	ProcessingTime *int     `json:"processing_time"`
	Category       *string  `json:"category"`
	IsActive       *bool    `json:"is_active"`
}

// CreateService handles POST /api/v1/services - adds a catalog entry (admin only)
func CreateService(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.Role.CanManageServices() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only administrators can manage services",
			},
		})
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	catalog := services.NewCatalogService(config.GetDB())
	service, err := catalog.Create(services.CreateServiceInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ProcessingTime: req.ProcessingTime,
		Category:       req.Category,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateService handles PUT /api/v1/services/:id - edits a catalog entry (admin only)
func UpdateService(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.Role.CanManageServices() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only administrators can manage services",
			},
		})
		return
	}

	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid service id",
			},
		})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	catalog := services.NewCatalogService(config.GetDB())
	service, err := catalog.Update(uint(serviceID), services.UpdateServiceInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ProcessingTime: req.ProcessingTime,
		Category:       req.Category,
		IsActive:       req.IsActive,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// ListServices handles GET /api/v1/services - lists catalog entries.
// Staff may pass ?active=false to include deactivated entries; clients
// always get the active catalog.
func ListServices(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	activeOnly := true
	if user.Role.IsStaff() {
		activeOnly = c.Query("active") == "true"
	}

	catalog := services.NewCatalogService(config.GetDB())
	entries, err := catalog.List(activeOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}
