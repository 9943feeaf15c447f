package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
)

// MeasurementRequest represents the request body for creating or updating a measurement
type MeasurementRequest struct {
	Values models.StringMap `json:"values"`
	Notes  string           `json:"notes"`
}

// CreateMeasurement handles POST /api/v1/customers/:id/measurements
func CreateMeasurement(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, customerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	var req MeasurementRequest
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

	if req.Values == nil {
		req.Values = models.StringMap{}
	}

	measurement := models.Measurement{
		CustomerID: customer.ID,
		Values:     req.Values,
		Notes:      req.Notes,
	}
	if err := db.Create(&measurement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create measurement",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableMeasurements)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// ListMeasurements handles GET /api/v1/customers/:id/measurements - newest first
func ListMeasurements(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	measurements, err := services.MeasurementsByCustomer(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load measurements",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurements,
	})
}

// GetLatestMeasurement handles GET /api/v1/measurements/latest?customer_id= -
// the single newest measurement, used to prefill a new measurement form.
// Returns null data when the customer has no measurements yet.
func GetLatestMeasurement(c *gin.Context) {
	raw := c.Query("customer_id")
	customerID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "customer_id must be an integer",
			},
		})
		return
	}

	measurement, err := services.LatestMeasurement(uint(customerID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load latest measurement",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// GetMeasurement handles GET /api/v1/measurements/:id
func GetMeasurement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var measurement models.Measurement
	if err := db.First(&measurement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Measurement not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// UpdateMeasurement handles PUT /api/v1/measurements/:id. An unknown id fails
// with NOT_FOUND.
func UpdateMeasurement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MeasurementRequest
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

	db := config.GetDB()
	var measurement models.Measurement
	if err := db.First(&measurement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Measurement not found",
			},
		})
		return
	}

	if req.Values != nil {
		measurement.Values = req.Values
	}
	measurement.Notes = req.Notes

	if err := db.Save(&measurement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update measurement",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableMeasurements)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// DeleteMeasurement handles DELETE /api/v1/measurements/:id
func DeleteMeasurement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var measurement models.Measurement
	if err := db.First(&measurement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Measurement not found",
			},
		})
		return
	}

	if err := db.Delete(&measurement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete measurement",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableMeasurements)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted_id": measurement.ID,
		},
	})
}
