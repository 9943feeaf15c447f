package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID     uint       `json:"customer_id" binding:"required"`
	OrderNumber    string     `json:"order_number"`
	ItemType       string     `json:"item_type" binding:"required"`
	Quantity       int        `json:"quantity"`
	Customizations []string   `json:"customizations"`
	Price          *float64   `json:"price"`
	AdvancePaid    float64    `json:"advance_paid"`
	Status         string     `json:"status"`
	OrderDate      *time.Time `json:"order_date"`
	DueDate        *time.Time `json:"due_date"`
	Notes          string     `json:"notes"`
}

// UpdateOrderRequest represents the request body for updating an order.
// OrderDate is absent on purpose: the order date is immutable once set.
type UpdateOrderRequest struct {
	OrderNumber    string     `json:"order_number"`
	ItemType       string     `json:"item_type" binding:"required"`
	Quantity       int        `json:"quantity"`
	Customizations []string   `json:"customizations"`
	Price          *float64   `json:"price"`
	AdvancePaid    float64    `json:"advance_paid"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date"`
	Notes          string     `json:"notes"`
}

// UpdateOrderStatusRequest represents the request body for a direct status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Customer and item type are required",
				"details": err.Error(),
			},
		})
		return
	}

	if strings.TrimSpace(req.ItemType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Item type must not be blank",
			},
		})
		return
	}

	if req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price is required",
			},
		})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": fmt.Sprintf("Unknown status %q", req.Status),
			},
		})
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	// Default due date is a week out, the shop's usual turnaround
	dueDate := orderDate.Add(7 * 24 * time.Hour)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	order := models.Order{
		CustomerID:     customer.ID,
		OrderNumber:    strings.TrimSpace(req.OrderNumber),
		ItemType:       strings.TrimSpace(req.ItemType),
		Quantity:       quantity,
		Customizations: models.StringSlice(req.Customizations),
		Price:          *req.Price,
		AdvancePaid:    req.AdvancePaid,
		Status:         status,
		OrderDate:      orderDate,
		DueDate:        dueDate,
		Notes:          req.Notes,
	}
	if models.IsCompletedStatus(status) {
		now := time.Now()
		order.CompletedDate = &now
	}

	if err := db.Omit("Customer").Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// A successfully saved order feeds the catalogs: unknown item types and
	// new customization labels become first-class choices
	if err := services.RecordOrderCatalogs(&order); err != nil {
		log.Printf("warning: failed to record order catalogs: %v", err)
	}

	services.GetNotifier().Publish(services.TableOrders)

	order.Customer = customer
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    services.WithBalance(&order),
	})
}

// ListOrders handles GET /api/v1/orders - every order joined with its
// customer, order date descending, optionally restricted by ?status=
func ListOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": fmt.Sprintf("Unknown status %q", status),
			},
		})
		return
	}

	orders, err := services.OrdersWithCustomers(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// ListCustomerOrders handles GET /api/v1/customers/:id/orders
func ListCustomerOrders(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	orders, err := services.OrdersByCustomer(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customer orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - the order joined with its customer
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.OrderWithCustomerByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id. An unknown id fails with
// NOT_FOUND. A status change through here carries the same completion
// stamping as the direct status endpoint.
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Item type is required",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price is required",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	status := req.Status
	if status == "" {
		status = order.Status
	}
	if !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": fmt.Sprintf("Unknown status %q", req.Status),
			},
		})
		return
	}

	order.OrderNumber = strings.TrimSpace(req.OrderNumber)
	order.ItemType = strings.TrimSpace(req.ItemType)
	if req.Quantity != 0 {
		order.Quantity = req.Quantity
	}
	order.Customizations = models.StringSlice(req.Customizations)
	order.Price = *req.Price
	order.AdvancePaid = req.AdvancePaid
	order.Notes = req.Notes
	if req.DueDate != nil {
		order.DueDate = *req.DueDate
	}
	applyStatus(&order, status)

	if err := db.Omit("Customer").Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	if err := services.RecordOrderCatalogs(&order); err != nil {
		log.Printf("warning: failed to record order catalogs: %v", err)
	}

	services.GetNotifier().Publish(services.TableOrders)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.WithBalance(&order),
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - the direct
// status-change action from the order list
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A status is required",
				"details": err.Error(),
			},
		})
		return
	}
	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": fmt.Sprintf("Unknown status %q", req.Status),
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	applyStatus(&order, req.Status)

	if err := db.Omit("Customer").Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableOrders)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.WithBalance(&order),
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if err := db.Delete(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete order",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableOrders)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted_id": order.ID,
		},
	})
}

// applyStatus sets the new status and stamps the completion date on the first
// transition into a completed-class status. The stamp is idempotent and never
// cleared by a later regression to an earlier status.
func applyStatus(order *models.Order, status string) {
	order.Status = status
	if models.IsCompletedStatus(status) && order.CompletedDate == nil {
		now := time.Now()
		order.CompletedDate = &now
	}
}
