package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
)

// CreateMeasurementFieldRequest represents the request body for adding a catalog field
type CreateMeasurementFieldRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// UpdateMeasurementFieldsRequest carries a batch of field updates applied as one unit
type UpdateMeasurementFieldsRequest struct {
	Fields []models.MeasurementField `json:"fields" binding:"required"`
}

// ListMeasurementFields handles GET /api/v1/measurement-fields - ordered by
// (category, displayOrder, name)
func ListMeasurementFields(c *gin.Context) {
	fields, err := services.MeasurementFields()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load measurement fields",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fields,
	})
}

// CreateMeasurementField handles POST /api/v1/measurement-fields. The new
// field lands at the end of its category: displayOrder is the category's
// current maximum plus one, or 0 for a previously empty category.
func CreateMeasurementField(c *gin.Context) {
	var req CreateMeasurementFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name and category are required",
				"details": err.Error(),
			},
		})
		return
	}

	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name and category must not be blank",
			},
		})
		return
	}

	db := config.GetDB()

	maxOrder := -1
	var current []models.MeasurementField
	if err := db.Where("category = ?", category).Find(&current).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load measurement fields",
			},
		})
		return
	}
	for _, f := range current {
		if f.DisplayOrder > maxOrder {
			maxOrder = f.DisplayOrder
		}
	}

	field := models.MeasurementField{
		Name:         name,
		Category:     category,
		DisplayOrder: maxOrder + 1,
	}
	if err := db.Create(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create measurement field",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableMeasurementFields)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    field,
	})
}

// UpdateMeasurementFields handles PUT /api/v1/measurement-fields - applies a
// batch of field updates (typically a reorder) all-or-nothing in one
// transaction. Any unknown id aborts the whole batch with NOT_FOUND.
func UpdateMeasurementFields(c *gin.Context) {
	var req UpdateMeasurementFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A fields array is required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	notFound := false
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, field := range req.Fields {
			result := tx.Model(&models.MeasurementField{}).
				Where("id = ?", field.ID).
				Updates(map[string]interface{}{
					"name":          field.Name,
					"category":      field.Category,
					"display_order": field.DisplayOrder,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				notFound = true
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		if notFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "One or more measurement fields do not exist; no changes applied",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update measurement fields",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableMeasurementFields)

	fields, err := services.MeasurementFields()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reload measurement fields",
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fields,
	})
}

// DeleteMeasurementField handles DELETE /api/v1/measurement-fields/:id.
// Deleting a field only removes it from the catalog: values already recorded
// under its name stay on their measurements as orphaned entries.
func DeleteMeasurementField(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var field models.MeasurementField
	if err := db.First(&field, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Measurement field not found",
			},
		})
		return
	}

	if err := db.Delete(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete measurement field",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableMeasurementFields)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted_id": field.ID,
		},
	})
}
