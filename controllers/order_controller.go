package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photolab/photolab-api/config"
	"github.com/photolab/photolab-api/models"
	"github.com/photolab/photolab-api/services"
)

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.GetDB(), services.GetFileStorage())
}

// CreateOrder handles POST /api/v1/orders - places a new order with optional
// file attachments (multipart form: service_id, quantity, notes, files).
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if c.Request.ContentLength > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_TOO_LARGE",
				"message": "Uploads are limited to 16 MiB per request",
			},
		})
		return
	}

	serviceID, err := strconv.ParseUint(c.PostForm("service_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A valid service_id is required",
			},
		})
		return
	}

	quantity := 1
	if q := c.PostForm("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_QUANTITY",
					"message": "Quantity must be a number",
				},
			})
			return
		}
	}

	input := services.PlaceOrderInput{
		CustomerID: user.ID,
		ServiceID:  uint(serviceID),
		Quantity:   quantity,
		Notes:      c.PostForm("notes"),
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		input.Files = form.File["files"]
	}

	result, err := orderService().PlaceOrder(input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order":          result.Order,
			"accepted_files": result.AcceptedFiles,
			"rejected_files": result.RejectedFiles,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches one order (role-gated)
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid order id",
			},
		})
		return
	}

	order, err := orderService().Get(user, uint(orderID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists visible orders newest-first
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := orderService().List(user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// SearchOrders handles GET /api/v1/orders/search?q=&status= - filters visible
// orders by order-number/notes substring and exact status.
func SearchOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := orderService().Search(user, c.Query("q"), models.OrderStatus(c.Query("status")))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// ExportOrders handles GET /api/v1/orders/export - machine-readable listing
func ExportOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	summaries, err := orderService().Export(user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status - transitions an
// order to any of the five statuses (staff only).
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid order id",
			},
		})
		return
	}

	var req UpdateOrderStatusRequest
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

	order, err := orderService().TransitionStatus(uint(orderID), models.OrderStatus(req.Status), user.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated",
		"data":    order,
	})
}

// GetDashboardStats handles GET /api/v1/dashboard/stats - order counters for
// the caller's dashboard; staff get ledger-wide numbers plus revenue.
func GetDashboardStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	svc := orderService()
	if user.Role.IsStaff() {
		stats, err := svc.Stats()
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    stats,
		})
		return
	}

	stats, err := svc.StatsForCustomer(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
