package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/photolab/photolab-api/config"
	"github.com/photolab/photolab-api/middleware"
	"github.com/photolab/photolab-api/models"
	"github.com/photolab/photolab-api/services"
)

// currentUser resolves the authenticated account from the request context.
// It writes the error response itself when resolution fails.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "Account not found",
			},
		})
		return nil, false
	}

	return &user, true
}

// handleServiceError maps a domain error onto the HTTP response envelope.
func handleServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "An unexpected error occurred"

	switch {
	case errors.Is(err, services.ErrDuplicateIdentity):
		status, code, message = http.StatusConflict, "DUPLICATE_IDENTITY", err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, code, message = http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error()
	case errors.Is(err, services.ErrServiceNotFound):
		status, code, message = http.StatusNotFound, "SERVICE_NOT_FOUND", err.Error()
	case errors.Is(err, services.ErrInvalidQuantity):
		status, code, message = http.StatusBadRequest, "INVALID_QUANTITY", err.Error()
	case errors.Is(err, services.ErrInvalidStatus):
		status, code, message = http.StatusBadRequest, "INVALID_STATUS", err.Error()
	case errors.Is(err, services.ErrInvalidInput):
		status, code, message = http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, services.ErrForbidden):
		status, code, message = http.StatusForbidden, "FORBIDDEN", "Access denied"
	case errors.Is(err, services.ErrNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Resource not found"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
