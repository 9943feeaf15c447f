package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailorrecords/tailor-records-api/services"
)

// AddItemTypeRequest represents the request body for adding a custom item type
type AddItemTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

// CustomizationRequest represents the request body for adding or removing a
// customization label
type CustomizationRequest struct {
	ItemType string `json:"item_type" binding:"required"`
	Label    string `json:"label" binding:"required"`
}

// ListItemTypes handles GET /api/v1/catalog/item-types - defaults plus custom
// entries, sorted, with "Other" last
func ListItemTypes(c *gin.Context) {
	types, err := services.ItemTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load item types",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    types,
	})
}

// AddItemType handles POST /api/v1/catalog/item-types. Adding a default or
// existing type is a harmless no-op (set semantics).
func AddItemType(c *gin.Context) {
	var req AddItemTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A type name is required",
				"details": err.Error(),
			},
		})
		return
	}

	if err := services.AddItemType(req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save item type",
			},
		})
		return
	}

	types, err := services.ItemTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load item types",
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    types,
	})
}

// ListCustomizations handles GET /api/v1/catalog/customizations?item_type=
func ListCustomizations(c *gin.Context) {
	itemType := c.Query("item_type")
	if itemType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "item_type is required",
			},
		})
		return
	}

	labels, err := services.Customizations(itemType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customizations",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    labels,
	})
}

// AddCustomization handles POST /api/v1/catalog/customizations
func AddCustomization(c *gin.Context) {
	var req CustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "item_type and label are required",
				"details": err.Error(),
			},
		})
		return
	}

	if err := services.AddCustomization(req.ItemType, req.Label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save customization",
			},
		})
		return
	}

	labels, err := services.Customizations(req.ItemType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customizations",
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    labels,
	})
}

// RemoveCustomization handles DELETE /api/v1/catalog/customizations
func RemoveCustomization(c *gin.Context) {
	var req CustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "item_type and label are required",
				"details": err.Error(),
			},
		})
		return
	}

	if err := services.RemoveCustomization(req.ItemType, req.Label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to remove customization",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
