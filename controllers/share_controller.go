package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailorrecords/tailor-records-api/services"
	"github.com/tailorrecords/tailor-records-api/utils"
)

// ScanQRRequest represents the request body for resolving a scanned QR payload
type ScanQRRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// GetOrderCard handles GET /api/v1/orders/:id/card - the rendered pickup card
// PDF with the embedded QR code
func GetOrderCard(c *gin.Context) {
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

	card, err := services.GenerateOrderCard(order, &order.Customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CARD_RENDER_ERROR",
				"message": "Failed to render order card",
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", card.FileName))
	c.Data(http.StatusOK, "application/pdf", card.PDF)
}

// ShareOrderCard handles POST /api/v1/orders/:id/share - sends the order card
// to the customer's WhatsApp number. When no provider is configured or the
// provider fails, the response carries a wa.me fallback link instead of an
// error: a missing sharing collaborator never fails the caller.
func ShareOrderCard(c *gin.Context) {
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

	card, err := services.GenerateOrderCard(order, &order.Customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CARD_RENDER_ERROR",
				"message": "Failed to render order card",
			},
		})
		return
	}

	caption := "Here are your order details. Please show the QR code when picking up your order."
	result := services.ShareOrderCard(order.Customer.PhoneNumber, caption, card.PDF)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ScanQR handles POST /api/v1/qr/scan - resolves a scanned order-card payload
// back to its order
func ScanQR(c *gin.Context) {
	var req ScanQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A payload is required",
				"details": err.Error(),
			},
		})
		return
	}

	orderID, customerName, err := utils.ParseQRPayload(req.Payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Not a valid order QR payload",
			},
		})
		return
	}

	order, err := services.OrderWithCustomerByID(orderID)
	if err != nil {
		// The name from the payload is the human fallback when the order is gone
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":          "NOT_FOUND",
				"message":       "Order not found",
				"customer_name": customerName,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
